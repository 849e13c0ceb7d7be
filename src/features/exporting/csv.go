package exporting

import (
	"strings"

	"cancionero/src/songs"
)

// csvHeader is the fixed export column ordering, matching the import parser's
// new layout.
const csvHeader = "Nombre,Artista,Estado,Tipo,Comentarios,YouTube"

// GenerateCSV renders the song list as a CSV document. Field values holding a
// comma, quote or newline are wrapped in double quotes with embedded quotes
// doubled.
func GenerateCSV(list []*songs.Song) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')
	for _, s := range list {
		fields := []string{
			s.SongName,
			s.ArtistName,
			s.State.Display(),
			s.Type.Display(),
			s.Comments,
			s.YouTubeLink,
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeField(f))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func escapeField(value string) string {
	if !strings.ContainsAny(value, ",\"\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
