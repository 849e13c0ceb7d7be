package importing

import (
	"errors"
	"testing"

	"cancionero/src/songs"
)

func TestSplitFields_QuotedCommaIsLiteral(t *testing.T) {
	row := `"Smith, John",Song One,Approved,Slow,"Great, isn't it",http://x`
	fields := splitFields(row)
	if len(fields) != 6 {
		t.Fatalf("expected 6 fields, got %d: %v", len(fields), fields)
	}
	if fields[0] != "Smith, John" {
		t.Errorf("expected quoted comma preserved, got %q", fields[0])
	}
	if fields[4] != "Great, isn't it" {
		t.Errorf("expected quoted comma preserved, got %q", fields[4])
	}
	if fields[5] != "http://x" {
		t.Errorf("unexpected last field %q", fields[5])
	}
}

func TestSplitFields_DoubledQuote(t *testing.T) {
	fields := splitFields(`"say ""hello""",rest`)
	if len(fields) != 2 || fields[0] != `say "hello"` {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestParseCSV_NewLayout(t *testing.T) {
	payload := "Nombre,Artista,Estado,Tipo,Comentarios,YouTube\n" +
		"De Música Ligera,Soda Stereo,Aprobada,Movida,clásico,http://youtu.be/x\n" +
		"Rezo Por Vos,Charly García,Pendiente,Lenta,,\n"
	drafts, layout, err := ParseCSV(payload)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if layout != LayoutNew {
		t.Fatalf("expected new layout, got %v", layout)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	first := drafts[0]
	if first.SongName != "De Música Ligera" || first.ArtistName != "Soda Stereo" {
		t.Errorf("unexpected identity %q / %q", first.SongName, first.ArtistName)
	}
	if first.State != songs.StateApproved || first.Type != songs.TypeUpbeat {
		t.Errorf("unexpected enums %q / %q", first.State, first.Type)
	}
	if first.Comments != "clásico" || first.YouTubeLink != "http://youtu.be/x" {
		t.Errorf("unexpected optional fields %q / %q", first.Comments, first.YouTubeLink)
	}
}

func TestParseCSV_LegacyLayout(t *testing.T) {
	payload := "Nombre,Artista,Genero,EstadoActual,TipoCancion\n" +
		"Persiana Americana,Soda Stereo,Rock,Lista,Movida\n" +
		"Trátame Suavemente,Soda Stereo,Rock,Aprobada\n"
	drafts, layout, err := ParseCSV(payload)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if layout != LayoutLegacy {
		t.Fatalf("expected legacy layout, got %v", layout)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[0].State != songs.StateReady || drafts[0].Type != songs.TypeUpbeat {
		t.Errorf("unexpected enums %q / %q", drafts[0].State, drafts[0].Type)
	}
	// Four-field legacy row: type defaults to slow.
	if drafts[1].State != songs.StateApproved || drafts[1].Type != songs.TypeSlow {
		t.Errorf("unexpected enums %q / %q", drafts[1].State, drafts[1].Type)
	}
	if drafts[0].Comments != "" || drafts[0].YouTubeLink != "" {
		t.Error("legacy layout must not carry comments or link")
	}
}

func TestParseCSV_SkipsShortAndBlankRows(t *testing.T) {
	payload := "Nombre,Artista,Estado,Tipo\n" +
		"\n" +
		"only,three,fields\n" +
		",NoName,Aprobada,Lenta\n" +
		"Valid Song,Valid Artist,Aprobada,Lenta\n"
	drafts, _, err := ParseCSV(payload)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(drafts) != 1 || drafts[0].SongName != "Valid Song" {
		t.Errorf("expected only the valid row, got %d drafts", len(drafts))
	}
}

func TestParseCSV_UnknownEnumValuesDefault(t *testing.T) {
	payload := "Nombre,Artista,Estado,Tipo\n" +
		"Some Song,Some Artist,banana,rocket\n"
	drafts, _, err := ParseCSV(payload)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if drafts[0].State != songs.StatePending || drafts[0].Type != songs.TypeSlow {
		t.Errorf("expected defaults, got %q / %q", drafts[0].State, drafts[0].Type)
	}
}

func TestParseCSV_EmptyPayloadIsParseError(t *testing.T) {
	cases := map[string]string{
		"blank":            "   \n\n  ",
		"header only":      "Nombre,Artista,Estado,Tipo,Comentarios,YouTube\n",
		"header and blank": "Nombre,Artista,Estado,Tipo,Comentarios,YouTube\n\n   \n",
	}
	for name, payload := range cases {
		if _, _, err := ParseCSV(payload); !errors.Is(err, songs.ErrParse) {
			t.Errorf("%s: ParseCSV() error = %v, want ErrParse", name, err)
		}
	}
}

func TestFilterDuplicates_CaseInsensitivePair(t *testing.T) {
	existing := []*songs.Song{{ArtistName: "Abc", SongName: "Xyz"}}
	candidates := []*songs.Song{
		{ArtistName: "abc", SongName: "xyz"},
		{ArtistName: "ABC", SongName: "other"},
	}
	kept := FilterDuplicates(candidates, existing)
	if len(kept) != 1 || kept[0].SongName != "other" {
		t.Errorf("unexpected kept set: %d", len(kept))
	}
}

func TestFilterDuplicates_DoesNotDedupWithinBatch(t *testing.T) {
	candidates := []*songs.Song{
		{ArtistName: "Queen", SongName: "Bohemian Rhapsody"},
		{ArtistName: "queen", SongName: "bohemian rhapsody"},
	}
	kept := FilterDuplicates(candidates, nil)
	if len(kept) != 2 {
		t.Errorf("expected both in-batch duplicates kept, got %d", len(kept))
	}
}
