package migration

import (
	"context"
	"log/slog"

	"cancionero/src/songs"
)

// LegacyStore is the read-once local list the guard drains.
type LegacyStore interface {
	Read() ([]*songs.Song, error)
	Clear() error
}

// Report summarizes one guard run.
type Report struct {
	LegacyCount int
	Skipped     bool
	Migrated    int
	Failed      int
}

// Guard performs the one-time, best-effort transfer of the legacy local song
// list into the durable store. It runs once per session, before the catalog
// is first loaded.
//
// The skip heuristic compares counts only: it cannot tell WHICH records the
// store holds, so a store populated with unrelated records suppresses
// migration and the legacy songs are lost when the list is cleared. Kept for
// compatibility with the data it guards; see DESIGN.md.
type Guard struct {
	legacy LegacyStore
	store  songs.Store
}

// NewGuard creates a migration guard.
func NewGuard(legacy LegacyStore, store songs.Store) *Guard {
	return &Guard{legacy: legacy, store: store}
}

// Run executes the guard and clears the legacy list after the attempt,
// whether migration ran or was skipped.
func (g *Guard) Run(ctx context.Context) (*Report, error) {
	list, err := g.legacy.Read()
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		slog.Debug("Migration guard: no legacy songs, nothing to do")
		return &Report{}, nil
	}

	report := &Report{LegacyCount: len(list)}

	count, err := g.store.Count(ctx)
	if err != nil {
		slog.Error("Migration guard: store count failed, keeping legacy list", "error", err)
		return nil, err
	}
	if count >= len(list) {
		slog.Info("Migration guard: store already populated, skipping", "storeCount", count, "legacyCount", len(list))
		report.Skipped = true
		if err := g.legacy.Clear(); err != nil {
			slog.Error("Migration guard: failed to clear legacy store", "error", err)
		}
		return report, nil
	}

	slog.Info("Migration guard: migrating legacy songs", "count", len(list))
	for _, record := range list {
		draft := record.Clone()
		// The store assigns a fresh identity; the legacy id is never trusted.
		draft.ID = ""
		if err := draft.Validate(); err != nil {
			slog.Error("Migration guard: invalid legacy record skipped", "artist", record.ArtistName, "song", record.SongName, "error", err)
			report.Failed++
			continue
		}
		if _, err := g.store.Create(ctx, draft); err != nil {
			slog.Error("Migration guard: failed to migrate record", "artist", record.ArtistName, "song", record.SongName, "error", err)
			report.Failed++
			continue
		}
		report.Migrated++
	}

	if err := g.legacy.Clear(); err != nil {
		slog.Error("Migration guard: failed to clear legacy store", "error", err)
	}
	slog.Info("Migration guard finished", "migrated", report.Migrated, "failed", report.Failed)
	return report, nil
}
