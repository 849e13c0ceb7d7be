package catalog

import (
	"slices"
	"strings"

	"cancionero/src/songs"
)

// Query is the filter predicate applied over the mirror. Empty Search and
// empty Types/States each mean "match everything" for their dimension.
type Query struct {
	Search string        `json:"search"`
	Types  []songs.Type  `json:"types"`
	States []songs.State `json:"states"`
}

// IsEmpty reports whether the query filters nothing out.
func (q Query) IsEmpty() bool {
	return q.Search == "" && len(q.Types) == 0 && len(q.States) == 0
}

// Matches reports whether a single song satisfies the query.
func (q Query) Matches(s *songs.Song) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(s.ArtistName), needle) &&
			!strings.Contains(strings.ToLower(s.SongName), needle) &&
			!strings.Contains(strings.ToLower(s.Comments), needle) {
			return false
		}
	}
	if len(q.Types) > 0 && !slices.Contains(q.Types, s.Type) {
		return false
	}
	if len(q.States) > 0 && !slices.Contains(q.States, s.State) {
		return false
	}
	return true
}

// ApplyFilter computes the filtered view of list under q. Pure: it returns a
// fresh slice holding the matching entries of list, preserving order and
// identity, and never mutates its inputs.
func ApplyFilter(list []*songs.Song, q Query) []*songs.Song {
	filtered := make([]*songs.Song, 0, len(list))
	for _, s := range list {
		if q.Matches(s) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
