package metrics

import (
	"context"
	"strings"
	"testing"

	"cancionero/src/features/catalog"
	"cancionero/src/songs"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fixedStore struct {
	ready chan struct{}
	list  []*songs.Song
}

func newFixedStore(list []*songs.Song) *fixedStore {
	ready := make(chan struct{})
	close(ready)
	return &fixedStore{ready: ready, list: list}
}

func (f *fixedStore) Ready() <-chan struct{} { return f.ready }
func (f *fixedStore) List(ctx context.Context) ([]*songs.Song, error) {
	return f.list, nil
}
func (f *fixedStore) Create(ctx context.Context, draft *songs.Song) (*songs.Song, error) {
	return draft, nil
}
func (f *fixedStore) Update(ctx context.Context, id string, patch songs.Patch) (*songs.Song, error) {
	return nil, songs.ErrNotFound
}
func (f *fixedStore) Delete(ctx context.Context, id string) error { return songs.ErrNotFound }
func (f *fixedStore) Count(ctx context.Context) (int, error)      { return len(f.list), nil }

func TestCollectReportsCatalogCounts(t *testing.T) {
	store := newFixedStore([]*songs.Song{
		{ID: "1", ArtistName: "A", SongName: "Uno", State: songs.StateApproved, Type: songs.TypeSlow},
		{ID: "2", ArtistName: "B", SongName: "Dos", State: songs.StateApproved, Type: songs.TypeUpbeat},
		{ID: "3", ArtistName: "C", SongName: "Tres", State: songs.StatePending, Type: songs.TypeSlow},
	})
	catalogService := catalog.NewService(store)
	if err := catalogService.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	service := NewService(catalogService)

	expected := `
		# HELP cancionero_songs_by_state Number of songs per workflow state.
		# TYPE cancionero_songs_by_state gauge
		cancionero_songs_by_state{state="approved"} 2
		cancionero_songs_by_state{state="pending"} 1
		cancionero_songs_by_state{state="recording"} 0
		cancionero_songs_by_state{state="ready"} 0
		cancionero_songs_by_state{state="rejected"} 0
		# HELP cancionero_songs_by_type Number of songs per tempo type.
		# TYPE cancionero_songs_by_type gauge
		cancionero_songs_by_type{type="slow"} 2
		cancionero_songs_by_type{type="upbeat"} 1
		# HELP cancionero_songs_total Number of songs in the catalog.
		# TYPE cancionero_songs_total gauge
		cancionero_songs_total 3
	`
	if err := testutil.CollectAndCompare(service, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics:\n%v", err)
	}
}

func TestCollectTracksMutationsAtScrapeTime(t *testing.T) {
	catalogService := catalog.NewService(newFixedStore(nil))
	service := NewService(catalogService)

	if got := testutil.CollectAndCount(service, "cancionero_songs_total"); got != 1 {
		t.Fatalf("CollectAndCount() = %d series, want 1", got)
	}
	before := `
		# HELP cancionero_songs_total Number of songs in the catalog.
		# TYPE cancionero_songs_total gauge
		cancionero_songs_total 0
	`
	if err := testutil.CollectAndCompare(service, strings.NewReader(before), "cancionero_songs_total"); err != nil {
		t.Errorf("before mutation:\n%v", err)
	}

	// A catalog mutation is visible on the very next scrape, no refresh step.
	if _, err := catalogService.Add(context.Background(), &songs.Song{
		ArtistName: "Divididos", SongName: "El 38", State: songs.StateReady, Type: songs.TypeUpbeat,
	}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	after := `
		# HELP cancionero_songs_total Number of songs in the catalog.
		# TYPE cancionero_songs_total gauge
		cancionero_songs_total 1
	`
	if err := testutil.CollectAndCompare(service, strings.NewReader(after), "cancionero_songs_total"); err != nil {
		t.Errorf("after mutation:\n%v", err)
	}
}

func TestObserveImportAccumulates(t *testing.T) {
	catalogService := catalog.NewService(newFixedStore(nil))
	service := NewService(catalogService)

	service.ObserveImport(5, 2, 1)
	service.ObserveImport(3, 0, 0)

	if got := testutil.ToFloat64(service.importInserted); got != 8 {
		t.Errorf("import_inserted_total = %v, want 8", got)
	}
	if got := testutil.ToFloat64(service.importDuplicates); got != 2 {
		t.Errorf("import_duplicates_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(service.importFailed); got != 1 {
		t.Errorf("import_failed_total = %v, want 1", got)
	}
}
