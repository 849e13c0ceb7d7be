package songs

import (
	"context"
)

// Patch carries a partial update for a song. Nil fields are left untouched by
// the store.
type Patch struct {
	ArtistName  *string `json:"artistName,omitempty"`
	SongName    *string `json:"songName,omitempty"`
	State       *State  `json:"state,omitempty"`
	Type        *Type   `json:"type,omitempty"`
	YouTubeLink *string `json:"youtubeLink,omitempty"`
	Comments    *string `json:"comments,omitempty"`
}

// Apply merges the patch into the song in place.
func (p Patch) Apply(s *Song) {
	if p.ArtistName != nil {
		s.ArtistName = *p.ArtistName
	}
	if p.SongName != nil {
		s.SongName = *p.SongName
	}
	if p.State != nil {
		s.State = *p.State
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.YouTubeLink != nil {
		s.YouTubeLink = *p.YouTubeLink
	}
	if p.Comments != nil {
		s.Comments = *p.Comments
	}
}

// Store is the durable persistence contract for the catalog. It is the sole
// authority for song identity and timestamps.
//
// Initialization is asynchronous: Ready returns a channel closed exactly once
// when the store can serve requests. Every operation issued before that
// returns ErrStoreUnavailable.
type Store interface {
	Ready() <-chan struct{}

	// List returns all songs ordered by CreatedAt descending.
	List(ctx context.Context) ([]*Song, error)

	// Create strips any client-supplied id from the draft, assigns id and
	// timestamps, persists and returns the stored record.
	Create(ctx context.Context, draft *Song) (*Song, error)

	// Update merges the patch into the record, refreshes UpdatedAt and
	// returns the updated record. ErrNotFound when id does not exist.
	Update(ctx context.Context, id string, patch Patch) (*Song, error)

	// Delete removes the record. ErrNotFound when id does not exist.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored songs.
	Count(ctx context.Context) (int, error)
}

// WaitReady blocks until the store's readiness signal fires or the context is
// done.
func WaitReady(ctx context.Context, store Store) error {
	select {
	case <-store.Ready():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
