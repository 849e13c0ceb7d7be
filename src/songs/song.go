package songs

import (
	"fmt"
	"strings"
	"time"
)

// State is the approval state of a song in the catalog.
type State string

const (
	StateApproved  State = "approved"
	StatePending   State = "pending"
	StateRecording State = "recording"
	StateReady     State = "ready"
	StateRejected  State = "rejected"
)

// Type classifies a song by tempo.
type Type string

const (
	TypeSlow   Type = "slow"
	TypeUpbeat Type = "upbeat"
)

// Display names used on the CSV format and the bot surface.
var stateDisplay = map[State]string{
	StateApproved:  "Aprobada",
	StatePending:   "Pendiente",
	StateRecording: "Grabación",
	StateReady:     "Lista",
	StateRejected:  "Rechazada",
}

var typeDisplay = map[Type]string{
	TypeSlow:   "Lenta",
	TypeUpbeat: "Movida",
}

var stateAliases = map[string]State{
	"approved":        StateApproved,
	"aprobada":        StateApproved,
	"pending":         StatePending,
	"pendingapproval": StatePending,
	"pendiente":       StatePending,
	"recording":       StateRecording,
	"grabacion":       StateRecording,
	"grabación":       StateRecording,
	"ready":           StateReady,
	"lista":           StateReady,
	"rejected":        StateRejected,
	"rechazada":       StateRejected,
}

var typeAliases = map[string]Type{
	"slow":   TypeSlow,
	"lenta":  TypeSlow,
	"upbeat": TypeUpbeat,
	"movida": TypeUpbeat,
}

// ParseState maps a raw value onto a known state. The second return value
// reports whether the value was recognized.
func ParseState(raw string) (State, bool) {
	s, ok := stateAliases[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}

// StateOrDefault collapses unrecognized raw values to StatePending.
func StateOrDefault(raw string) State {
	if s, ok := ParseState(raw); ok {
		return s
	}
	return StatePending
}

// ParseType maps a raw value onto a known type. The second return value
// reports whether the value was recognized.
func ParseType(raw string) (Type, bool) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(raw))]
	return t, ok
}

// TypeOrDefault collapses unrecognized raw values to TypeSlow.
func TypeOrDefault(raw string) Type {
	if t, ok := ParseType(raw); ok {
		return t
	}
	return TypeSlow
}

// Display returns the Spanish display name for the state.
func (s State) Display() string {
	if d, ok := stateDisplay[s]; ok {
		return d
	}
	return stateDisplay[StatePending]
}

// Display returns the Spanish display name for the type.
func (t Type) Display() string {
	if d, ok := typeDisplay[t]; ok {
		return d
	}
	return typeDisplay[TypeSlow]
}

// States lists every known state.
func States() []State {
	return []State{StateApproved, StatePending, StateRecording, StateReady, StateRejected}
}

// Types lists every known type.
func Types() []Type {
	return []Type{TypeSlow, TypeUpbeat}
}

// Song is the catalog's sole entity. ID, CreatedAt and UpdatedAt are assigned
// by the store; a draft carries none of them.
type Song struct {
	ID          string    `json:"id,omitempty"`
	ArtistName  string    `json:"artistName"`
	SongName    string    `json:"songName"`
	State       State     `json:"state"`
	Type        Type      `json:"type"`
	YouTubeLink string    `json:"youtubeLink,omitempty"`
	Comments    string    `json:"comments,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Validate validates the song fields.
func (s *Song) Validate() error {
	if strings.TrimSpace(s.ArtistName) == "" {
		return fmt.Errorf("artist name cannot be empty")
	}
	if len(s.ArtistName) > 200 {
		return fmt.Errorf("artist name cannot exceed 200 characters, got %d: artist -> %s", len(s.ArtistName), s.ArtistName)
	}
	if strings.TrimSpace(s.SongName) == "" {
		return fmt.Errorf("song name cannot be empty")
	}
	if len(s.SongName) > 300 {
		return fmt.Errorf("song name cannot exceed 300 characters, got %d: song -> %s", len(s.SongName), s.SongName)
	}
	if s.YouTubeLink != "" && len(s.YouTubeLink) > 500 {
		return fmt.Errorf("youtube link cannot exceed 500 characters, got %d", len(s.YouTubeLink))
	}
	if len(s.Comments) > 5000 {
		return fmt.Errorf("comments cannot exceed 5000 characters, got %d", len(s.Comments))
	}
	if _, ok := stateDisplay[s.State]; !ok {
		s.State = StatePending
	}
	if _, ok := typeDisplay[s.Type]; !ok {
		s.Type = TypeSlow
	}
	return nil
}

// DedupKey is the case-insensitive (artist, song) identity used by the import
// deduplicator.
func (s *Song) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(s.ArtistName)) + "\x00" + strings.ToLower(strings.TrimSpace(s.SongName))
}

// Clone returns a shallow copy of the song.
func (s *Song) Clone() *Song {
	c := *s
	return &c
}
