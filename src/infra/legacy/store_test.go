package legacy

import (
	"os"
	"path/filepath"
	"testing"

	"cancionero/src/songs"
)

func TestReadMissingFileIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "legacy-songs.json"))

	list, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if list != nil {
		t.Errorf("Read() = %v, want nil for a missing file", list)
	}
}

func TestReadAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy-songs.json")
	payload := `[{"id":"old-1","artistName":"Sumo","songName":"La Rubia Tarada","state":"approved","type":"upbeat"}]`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}
	store := NewStore(path)

	list, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(list) != 1 || list[0].ArtistName != "Sumo" || list[0].State != songs.StateApproved {
		t.Errorf("Read() = %+v, want the stored record", list)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Clear() should remove the file")
	}

	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestReadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy-songs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(path).Read(); err == nil {
		t.Error("Read() of a malformed file should fail")
	}
}
