package exporting

import (
	"context"

	"cancionero/src/songs"
)

// PDFRenderer is the collaborator contract for PDF export. Layout and
// pagination live behind it; this repository only hands over the song list.
type PDFRenderer interface {
	// Render produces a PDF document for the given songs.
	Render(ctx context.Context, list []*songs.Song) ([]byte, error)
}
