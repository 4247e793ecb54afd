package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is the current state of one AR narrative playthrough.
// It is the only mutable state in the system and is updated exclusively
// through Apply; everything visual is derived from it with Render.
type Session struct {
	ID         uuid.UUID `json:"id"`         // Unique ID per session
	Experience string    `json:"experience"` // Experience definition filename

	Progress        Progress        `json:"progress"`
	Overlays        map[string]bool `json:"overlays,omitempty"`      // marker ID -> overlay currently visible
	PortalActivated bool            `json:"portal_activated"`        // portal has been clicked
	PaletteIndex    map[string]int  `json:"palette_index,omitempty"` // object ID -> position in the palette cycle
	Clicked         map[string]bool `json:"clicked,omitempty"`       // revelation objects clicked at least once

	EventCount int       `json:"event_count"` // total events applied, including no-ops
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSession creates a fresh session in NotStarted for the given
// experience file.
func NewSession(experienceFile string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           uuid.New(),
		Experience:   experienceFile,
		Progress:     NotStarted,
		Overlays:     make(map[string]bool),
		PaletteIndex: make(map[string]int),
		Clicked:      make(map[string]bool),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// clone returns a deep copy so the reducer never mutates its input.
func (s Session) clone() Session {
	overlays := make(map[string]bool, len(s.Overlays))
	for k, v := range s.Overlays {
		overlays[k] = v
	}
	palette := make(map[string]int, len(s.PaletteIndex))
	for k, v := range s.PaletteIndex {
		palette[k] = v
	}
	clicked := make(map[string]bool, len(s.Clicked))
	for k, v := range s.Clicked {
		clicked[k] = v
	}
	s.Overlays = overlays
	s.PaletteIndex = palette
	s.Clicked = clicked
	return s
}
