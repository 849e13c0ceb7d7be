package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"cancionero/src/songs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore is a SQLite implementation of the songs.Store interface.
//
// Schema creation runs in the background after construction; the readiness
// channel closes once the store can serve requests. If initialization fails
// the channel never closes and every operation keeps returning
// songs.ErrStoreUnavailable.
type SqliteStore struct {
	db    *sql.DB
	ready chan struct{}
}

// NewSqliteStore opens the database and starts asynchronous initialization.
func NewSqliteStore(path string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	s := &SqliteStore{db: db, ready: make(chan struct{})}
	go s.init()
	return s, nil
}

func (s *SqliteStore) init() {
	if err := createTables(s.db); err != nil {
		slog.Error("SqliteStore initialization failed", "error", err)
		return
	}
	close(s.ready)
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS songs (
			id TEXT PRIMARY KEY,
			artist_name TEXT NOT NULL,
			song_name TEXT NOT NULL,
			state TEXT NOT NULL,
			type TEXT NOT NULL,
			youtube_link TEXT,
			comments TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_songs_created_at ON songs(created_at);
	`)
	return err
}

// Ready returns the one-shot readiness signal.
func (s *SqliteStore) Ready() <-chan struct{} {
	return s.ready
}

func (s *SqliteStore) checkReady() error {
	select {
	case <-s.ready:
		return nil
	default:
		return songs.ErrStoreUnavailable
	}
}

// Close closes the underlying database.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

// List returns all songs ordered by creation time, newest first.
func (s *SqliteStore) List(ctx context.Context) ([]*songs.Song, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, artist_name, song_name, state, type, youtube_link, comments, created_at, updated_at
		FROM songs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", songs.ErrRemote, err)
	}
	defer rows.Close()

	var list []*songs.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", songs.ErrRemote, err)
		}
		list = append(list, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", songs.ErrRemote, err)
	}
	return list, nil
}

// Create assigns id and timestamps and persists the draft. Any
// client-supplied id is discarded.
func (s *SqliteStore) Create(ctx context.Context, draft *songs.Song) (*songs.Song, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	stored := draft.Clone()
	stored.ID = uuid.New().String()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO songs (id, artist_name, song_name, state, type, youtube_link, comments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.ArtistName, stored.SongName, string(stored.State), string(stored.Type),
		stored.YouTubeLink, stored.Comments, formatTime(stored.CreatedAt), formatTime(stored.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", songs.ErrRemote, err)
	}
	return stored, nil
}

// Update merges the patch into the stored record and refreshes updated_at.
func (s *SqliteStore) Update(ctx context.Context, id string, patch songs.Patch) (*songs.Song, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, artist_name, song_name, state, type, youtube_link, comments, created_at, updated_at
		FROM songs WHERE id = ?`, id)
	current, err := scanSong(row)
	if err == sql.ErrNoRows {
		return nil, songs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", songs.ErrRemote, err)
	}

	patch.Apply(current)
	current.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE songs SET artist_name = ?, song_name = ?, state = ?, type = ?, youtube_link = ?, comments = ?, updated_at = ?
		WHERE id = ?`,
		current.ArtistName, current.SongName, string(current.State), string(current.Type),
		current.YouTubeLink, current.Comments, formatTime(current.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", songs.ErrRemote, err)
	}
	return current, nil
}

// Delete removes a song. Deleting a nonexistent id is songs.ErrNotFound.
func (s *SqliteStore) Delete(ctx context.Context, id string) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", songs.ErrRemote, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", songs.ErrRemote, err)
	}
	if affected == 0 {
		return songs.ErrNotFound
	}
	return nil
}

// Count returns the number of stored songs.
func (s *SqliteStore) Count(ctx context.Context) (int, error) {
	if err := s.checkReady(); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", songs.ErrRemote, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (*songs.Song, error) {
	var song songs.Song
	var state, typ, createdAt, updatedAt string
	var youtubeLink, comments sql.NullString
	err := row.Scan(&song.ID, &song.ArtistName, &song.SongName, &state, &typ, &youtubeLink, &comments, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	song.State = songs.StateOrDefault(state)
	song.Type = songs.TypeOrDefault(typ)
	song.YouTubeLink = youtubeLink.String
	song.Comments = comments.String
	song.CreatedAt = parseTime(createdAt)
	song.UpdatedAt = parseTime(updatedAt)
	return &song, nil
}

// timeLayout is fixed-width (no trailing-zero trimming) so that the stored
// text sorts in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
