package importing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cancionero/src/features/catalog"
	"cancionero/src/songs"
)

// mockStore is an in-memory songs.Store that fails Create for scripted draft
// names.
type mockStore struct {
	ready      chan struct{}
	records    []*songs.Song
	nextID     int
	failCreate map[string]error
}

func newMockStore() *mockStore {
	ready := make(chan struct{})
	close(ready)
	return &mockStore{ready: ready, failCreate: make(map[string]error)}
}

func (m *mockStore) Ready() <-chan struct{} { return m.ready }

func (m *mockStore) List(ctx context.Context) ([]*songs.Song, error) {
	out := make([]*songs.Song, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *mockStore) Create(ctx context.Context, draft *songs.Song) (*songs.Song, error) {
	if err, ok := m.failCreate[draft.SongName]; ok {
		return nil, err
	}
	m.nextID++
	stored := draft.Clone()
	stored.ID = fmt.Sprintf("id-%d", m.nextID)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.records = append([]*songs.Song{stored}, m.records...)
	return stored.Clone(), nil
}

func (m *mockStore) Update(ctx context.Context, id string, patch songs.Patch) (*songs.Song, error) {
	return nil, songs.ErrNotFound
}

func (m *mockStore) Delete(ctx context.Context, id string) error { return songs.ErrNotFound }

func (m *mockStore) Count(ctx context.Context) (int, error) { return len(m.records), nil }

// countingObserver records the totals it was notified with.
type countingObserver struct {
	inserted, duplicates, failed int
	calls                        int
}

func (o *countingObserver) ObserveImport(inserted, duplicates, failed int) {
	o.inserted += inserted
	o.duplicates += duplicates
	o.failed += failed
	o.calls++
}

const importPayload = "Nombre,Artista,Estado,Tipo,Comentarios,YouTube\n" +
	"First Song,Band A,Aprobada,Movida,,\n" +
	"Second Song,Band B,Pendiente,Lenta,,\n" +
	"Third Song,Band C,Lista,Movida,,\n"

func TestImport_PartialFailureKeepsGoing(t *testing.T) {
	store := newMockStore()
	store.failCreate["Second Song"] = fmt.Errorf("%w: write refused", songs.ErrRemote)
	catalogService := catalog.NewService(store)
	observer := &countingObserver{}
	service := NewService(catalogService, nil, nil, observer)

	report, err := service.Import(context.Background(), importPayload)
	if err != nil {
		t.Fatalf("expected no batch-level error, got %v", err)
	}
	if report.Parsed != 3 || report.Inserted != 2 || report.Failed != 1 || report.Duplicates != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Results) != 3 {
		t.Fatalf("expected 3 ordered results, got %d", len(report.Results))
	}
	if report.Results[0].Err != nil || report.Results[2].Err != nil {
		t.Error("expected first and third items to succeed")
	}
	if !errors.Is(report.Results[1].Err, songs.ErrRemote) {
		t.Errorf("expected remote error on second item, got %v", report.Results[1].Err)
	}

	// Mirror holds exactly the two successes.
	if catalogService.Count() != 2 {
		t.Errorf("expected 2 songs in mirror, got %d", catalogService.Count())
	}
	for _, s := range catalogService.Songs() {
		if s.SongName == "Second Song" {
			t.Error("failed item must not reach the mirror")
		}
	}

	if observer.calls != 1 || observer.inserted != 2 || observer.failed != 1 {
		t.Errorf("observer not notified with batch totals: %+v", observer)
	}
}

func TestImport_SkipsExistingCatalogEntries(t *testing.T) {
	store := newMockStore()
	catalogService := catalog.NewService(store)
	if _, err := catalogService.Add(context.Background(), &songs.Song{ArtistName: "band a", SongName: "first song"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	service := NewService(catalogService, nil, nil, nil)

	report, err := service.Import(context.Background(), importPayload)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.Duplicates != 1 || report.Inserted != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if catalogService.Count() != 3 {
		t.Errorf("expected 3 songs total, got %d", catalogService.Count())
	}
}

func TestImport_ParseErrorAbortsBatch(t *testing.T) {
	store := newMockStore()
	catalogService := catalog.NewService(store)
	service := NewService(catalogService, nil, nil, nil)

	_, err := service.Import(context.Background(), "  \n ")
	if !errors.Is(err, songs.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if catalogService.Count() != 0 {
		t.Error("nothing may be written on a parse failure")
	}
}
