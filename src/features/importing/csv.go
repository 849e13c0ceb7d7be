package importing

import (
	"fmt"
	"strings"

	"cancionero/src/songs"
	"github.com/gosimple/unidecode"
)

// Layout identifies which of the two accepted CSV column orderings a payload
// uses.
type Layout int

const (
	// LayoutNew is name, artist, state, type, comments, link.
	LayoutNew Layout = iota
	// LayoutLegacy is name, artist, genre, state, type. No comments or link.
	LayoutLegacy
)

func (l Layout) String() string {
	if l == LayoutLegacy {
		return "legacy"
	}
	return "new"
}

// minFields is the minimum parsed field count for a data row to be accepted.
const minFields = 4

// ParseCSV converts a CSV payload into song drafts. The first row is the
// header and selects the layout; data rows with fewer than four fields, or
// without artist and song names, are silently skipped. Unrecognized state and
// type values collapse to their defaults instead of failing the row.
//
// An empty or header-only payload is a songs.ErrParse and aborts the whole
// import.
func ParseCSV(text string) ([]*songs.Song, Layout, error) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, LayoutNew, fmt.Errorf("%w: empty payload", songs.ErrParse)
	}

	layout := detectLayout(splitFields(lines[headerIdx]))

	var drafts []*songs.Song
	dataRows := 0
	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		dataRows++
		fields := splitFields(line)
		if len(fields) < minFields {
			continue
		}
		draft := draftFromRow(fields, layout)
		if draft == nil {
			continue
		}
		drafts = append(drafts, draft)
	}
	if dataRows == 0 {
		return nil, layout, fmt.Errorf("%w: no data rows", songs.ErrParse)
	}
	return drafts, layout, nil
}

// detectLayout picks the new layout when the header carries state- and
// type-equivalent columns; anything else is treated as the legacy ordering.
func detectLayout(header []string) Layout {
	hasState, hasType := false, false
	for _, cell := range header {
		switch unidecode.Unidecode(strings.ToLower(strings.TrimSpace(cell))) {
		case "estado", "state":
			hasState = true
		case "tipo", "type":
			hasType = true
		}
	}
	if hasState && hasType {
		return LayoutNew
	}
	return LayoutLegacy
}

// draftFromRow maps a parsed row onto a draft, or nil when the row lacks the
// identity fields.
func draftFromRow(fields []string, layout Layout) *songs.Song {
	draft := &songs.Song{
		SongName:   fields[0],
		ArtistName: fields[1],
	}
	switch layout {
	case LayoutNew:
		draft.State = songs.StateOrDefault(fields[2])
		draft.Type = songs.TypeOrDefault(fields[3])
		if len(fields) > 4 {
			draft.Comments = fields[4]
		}
		if len(fields) > 5 {
			draft.YouTubeLink = fields[5]
		}
	case LayoutLegacy:
		// fields[2] is the legacy genre column, which the catalog dropped.
		draft.State = songs.StateOrDefault(fields[3])
		if len(fields) > 4 {
			draft.Type = songs.TypeOrDefault(fields[4])
		} else {
			draft.Type = songs.TypeSlow
		}
	}
	if strings.TrimSpace(draft.SongName) == "" || strings.TrimSpace(draft.ArtistName) == "" {
		return nil
	}
	return draft
}

// splitFields splits one CSV row on commas honoring the quoted-field rule: a
// double quote toggles the in-quotes state, a comma inside quotes is literal
// text and a doubled quote inside quotes is one literal quote.
func splitFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}

// FilterDuplicates returns the candidates whose case-insensitive
// (artist, song) pair does not already exist in the catalog. Candidates are
// not deduplicated against each other: two identical rows in one batch both
// survive.
func FilterDuplicates(candidates, existing []*songs.Song) []*songs.Song {
	known := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		known[s.DedupKey()] = struct{}{}
	}
	kept := make([]*songs.Song, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := known[c.DedupKey()]; dup {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
