package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"cancionero/src/songs"
)

// Service is the domain service for the catalog feature. It owns the mirror
// and funnels every mutation through the store first: the mirror is only
// touched after the store has acknowledged, so it never runs ahead of durable
// state.
type Service struct {
	store  songs.Store
	mirror *Mirror
}

// NewService creates a new catalog service.
func NewService(store songs.Store) *Service {
	return &Service{
		store:  store,
		mirror: NewMirror(),
	}
}

// Load replaces the mirror with a fresh store listing.
func (s *Service) Load(ctx context.Context) error {
	slog.Debug("Load service called")
	list, err := s.store.List(ctx)
	if err != nil {
		slog.Error("Load failed", "error", err)
		return err
	}
	s.mirror.SetSongs(list)
	slog.Debug("Load completed", "count", len(list))
	return nil
}

// Add validates a draft, persists it and inserts the stored record into the
// mirror. The draft's id, if any, is discarded by the store.
func (s *Service) Add(ctx context.Context, draft *songs.Song) (*songs.Song, error) {
	slog.Debug("Add service called", "artist", draft.ArtistName, "song", draft.SongName)
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", songs.ErrInvalid, err)
	}
	created, err := s.store.Create(ctx, draft)
	if err != nil {
		slog.Error("Add failed", "artist", draft.ArtistName, "song", draft.SongName, "error", err)
		return nil, err
	}
	s.mirror.Insert(created)
	slog.Debug("Add completed", "id", created.ID)
	return created, nil
}

// Update merges a patch into the stored record and replaces it in the mirror
// once the store acknowledges.
func (s *Service) Update(ctx context.Context, id string, patch songs.Patch) (*songs.Song, error) {
	slog.Debug("Update service called", "id", id)
	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		slog.Error("Update failed", "id", id, "error", err)
		return nil, err
	}
	s.mirror.Replace(updated)
	slog.Debug("Update completed", "id", id)
	return updated, nil
}

// UpdateComments overwrites only the comments field of a song.
func (s *Service) UpdateComments(ctx context.Context, id string, comments string) (*songs.Song, error) {
	slog.Debug("UpdateComments service called", "id", id)
	return s.Update(ctx, id, songs.Patch{Comments: &comments})
}

// Delete removes a song from the store, then from the mirror.
func (s *Service) Delete(ctx context.Context, id string) error {
	slog.Debug("Delete service called", "id", id)
	if err := s.store.Delete(ctx, id); err != nil {
		slog.Error("Delete failed", "id", id, "error", err)
		return err
	}
	s.mirror.Remove(id)
	slog.Debug("Delete completed", "id", id)
	return nil
}

// SetFilter installs a new query; the filtered view is recomputed immediately.
func (s *Service) SetFilter(q Query) {
	slog.Debug("SetFilter service called", "search", q.Search, "types", len(q.Types), "states", len(q.States))
	s.mirror.SetQuery(q)
}

// Filter returns the currently installed query.
func (s *Service) Filter() Query {
	return s.mirror.Query()
}

// Songs returns a snapshot of the full catalog mirror.
func (s *Service) Songs() []*songs.Song {
	return s.mirror.Songs()
}

// Filtered returns a snapshot of the filtered view.
func (s *Service) Filtered() []*songs.Song {
	return s.mirror.Filtered()
}

// Get returns a song by id from the mirror, or nil if unknown.
func (s *Service) Get(id string) *songs.Song {
	return s.mirror.Get(id)
}

// Artists returns the deduplicated artist names across the catalog.
func (s *Service) Artists() []string {
	return s.mirror.Artists()
}

// Count returns the number of songs in the mirror.
func (s *Service) Count() int {
	return s.mirror.Len()
}

// CountsByState tallies the catalog per approval state.
func (s *Service) CountsByState() map[songs.State]int {
	return s.mirror.CountsByState()
}

// CountsByType tallies the catalog per song type.
func (s *Service) CountsByType() map[songs.Type]int {
	return s.mirror.CountsByType()
}
