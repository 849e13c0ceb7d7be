package catalog

import (
	"sort"
	"strings"
	"sync"

	"cancionero/src/songs"
	"github.com/gosimple/unidecode"
)

// Mirror is the in-memory copy of the catalog, owned by a single Service
// instance. It holds the song list ordered by creation (newest first), the
// derived filtered view and a lazily rebuilt artist-name index.
//
// The mutex protects the container itself; it does not serialize two in-flight
// edits for the same song id. Those race last-write-wins, as the store does.
type Mirror struct {
	mu          sync.Mutex
	songs       []*songs.Song
	filtered    []*songs.Song
	query       Query
	artistIndex []string
	indexStale  bool
}

// NewMirror creates an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{indexStale: true}
}

// SetSongs replaces the whole mirror content, typically from a store listing.
func (m *Mirror) SetSongs(list []*songs.Song) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.songs = list
	m.indexStale = true
	m.refilter()
}

// Insert prepends a newly created song. The store lists newest first, so the
// mirror does too.
func (m *Mirror) Insert(s *songs.Song) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.songs = append([]*songs.Song{s}, m.songs...)
	m.indexStale = true
	m.refilter()
}

// Replace swaps the stored record for an updated one, in place.
func (m *Mirror) Replace(updated *songs.Song) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.songs {
		if s.ID == updated.ID {
			m.songs[i] = updated
			break
		}
	}
	m.indexStale = true
	m.refilter()
}

// Remove drops the record with the given id.
func (m *Mirror) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.songs {
		if s.ID == id {
			m.songs = append(m.songs[:i], m.songs[i+1:]...)
			break
		}
	}
	m.indexStale = true
	m.refilter()
}

// SetQuery installs a new filter predicate and recomputes the filtered view.
func (m *Mirror) SetQuery(q Query) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.query = q
	m.refilter()
}

// Query returns the current filter predicate.
func (m *Mirror) Query() Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.query
}

// Songs returns a snapshot of the full mirror.
func (m *Mirror) Songs() []*songs.Song {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*songs.Song, len(m.songs))
	copy(out, m.songs)
	return out
}

// Filtered returns a snapshot of the filtered view.
func (m *Mirror) Filtered() []*songs.Song {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*songs.Song, len(m.filtered))
	copy(out, m.filtered)
	return out
}

// Get returns the song with the given id, or nil.
func (m *Mirror) Get(id string) *songs.Song {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.songs {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Len returns the number of songs in the mirror.
func (m *Mirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.songs)
}

// Artists returns the deduplicated artist names across the mirror, sorted
// accent-insensitively. The index is rebuilt only when a mutation has marked
// it stale.
func (m *Mirror) Artists() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexStale {
		m.rebuildArtistIndex()
	}
	out := make([]string, len(m.artistIndex))
	copy(out, m.artistIndex)
	return out
}

// InvalidateArtistIndex marks the artist index stale. Every mutation path
// already does this; it is exposed for callers that mutate songs in place.
func (m *Mirror) InvalidateArtistIndex() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexStale = true
}

// CountsByState tallies the mirror per approval state.
func (m *Mirror) CountsByState() map[songs.State]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[songs.State]int)
	for _, s := range m.songs {
		counts[s.State]++
	}
	return counts
}

// CountsByType tallies the mirror per song type.
func (m *Mirror) CountsByType() map[songs.Type]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[songs.Type]int)
	for _, s := range m.songs {
		counts[s.Type]++
	}
	return counts
}

// refilter recomputes the filtered view wholesale. Callers hold the mutex.
func (m *Mirror) refilter() {
	m.filtered = ApplyFilter(m.songs, m.query)
}

// rebuildArtistIndex rebuilds the deduplicated artist set. Callers hold the mutex.
func (m *Mirror) rebuildArtistIndex() {
	seen := make(map[string]string, len(m.songs))
	for _, s := range m.songs {
		key := strings.ToLower(strings.TrimSpace(s.ArtistName))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = s.ArtistName
		}
	}
	index := make([]string, 0, len(seen))
	for _, name := range seen {
		index = append(index, name)
	}
	sort.Slice(index, func(i, j int) bool {
		return unidecode.Unidecode(strings.ToLower(index[i])) < unidecode.Unidecode(strings.ToLower(index[j]))
	})
	m.artistIndex = index
	m.indexStale = false
}
