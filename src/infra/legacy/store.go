package legacy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cancionero/src/songs"
)

// Store reads the pre-migration song list: one JSON file holding a serialized
// list of song-like records under a well-known path. It is read once by the
// migration guard and then cleared.
type Store struct {
	path string
}

// NewStore creates a legacy store for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Read returns the legacy song list. A missing file is an empty list, not an
// error.
func (s *Store) Read() ([]*songs.Song, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy store %s: %w", s.path, err)
	}

	var list []*songs.Song
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode legacy store %s: %w", s.path, err)
	}
	return list, nil
}

// Clear removes the legacy file so migration is not re-attempted.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear legacy store %s: %w", s.path, err)
	}
	slog.Info("Legacy store cleared", "path", s.path)
	return nil
}
