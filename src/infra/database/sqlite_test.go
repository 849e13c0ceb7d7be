package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cancionero/src/songs"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()
	store, err := NewSqliteStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("NewSqliteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := songs.WaitReady(ctx, store); err != nil {
		t.Fatalf("store never became ready: %v", err)
	}
	return store
}

func TestSqliteStoreCreateAssignsIdentity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	draft := &songs.Song{ID: "client-chosen", ArtistName: "Soda Stereo", SongName: "Persiana Americana", State: songs.StateApproved, Type: songs.TypeUpbeat}
	stored, err := store.Create(ctx, draft)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if stored.ID == "" || stored.ID == "client-chosen" {
		t.Errorf("Create() id = %q, want a generated id", stored.ID)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Error("Create() should set timestamps")
	}
}

func TestSqliteStoreListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Primera", "Segunda", "Tercera"} {
		if _, err := store.Create(ctx, &songs.Song{ArtistName: "Artista", SongName: name, State: songs.StatePending, Type: songs.TypeSlow}); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() returned %d songs, want 3", len(list))
	}
	if list[0].SongName != "Tercera" {
		t.Errorf("List()[0] = %q, want newest first", list[0].SongName)
	}
}

func TestSqliteStoreListOrdersAcrossSecondBoundary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// A record created exactly on a second boundary must still sort older
	// than one created a fraction of a second later.
	onBoundary := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	later := onBoundary.Add(500 * time.Millisecond)
	for _, row := range []struct {
		id   string
		name string
		at   time.Time
	}{
		{"row-a", "En el segundo justo", onBoundary},
		{"row-b", "Medio segundo después", later},
	} {
		_, err := store.db.Exec(`
			INSERT INTO songs (id, artist_name, song_name, state, type, youtube_link, comments, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.id, "Artista", row.name, "pending", "slow", "", "", formatTime(row.at), formatTime(row.at))
		if err != nil {
			t.Fatalf("insert %s: %v", row.id, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "row-b" {
		t.Errorf("List()[0].ID = %q, want the sub-second newer record first", list[0].ID)
	}
	if !list[1].CreatedAt.Equal(onBoundary) {
		t.Errorf("CreatedAt round trip = %v, want %v", list[1].CreatedAt, onBoundary)
	}
}

func TestSqliteStoreUpdateMergesPatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.Create(ctx, &songs.Song{ArtistName: "Fito Páez", SongName: "11 y 6", State: songs.StatePending, Type: songs.TypeSlow})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	state := songs.StateReady
	comments := "lista para el ensayo"
	updated, err := store.Update(ctx, stored.ID, songs.Patch{State: &state, Comments: &comments})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.State != songs.StateReady || updated.Comments != comments {
		t.Errorf("Update() = state %q comments %q, patch not applied", updated.State, updated.Comments)
	}
	if updated.ArtistName != "Fito Páez" {
		t.Errorf("Update() artist = %q, untouched fields must survive", updated.ArtistName)
	}
}

func TestSqliteStoreUnknownID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Update(ctx, "missing", songs.Patch{}); !errors.Is(err, songs.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "missing"); !errors.Is(err, songs.ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSqliteStoreCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := store.Create(ctx, &songs.Song{ArtistName: "Artista", SongName: "Tema", State: songs.StatePending, Type: songs.TypeSlow}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 4 {
		t.Errorf("Count() = %d, want 4", count)
	}
}
