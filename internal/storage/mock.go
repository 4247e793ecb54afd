package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kmorrow11/arstory/pkg/experience"
	"github.com/kmorrow11/arstory/pkg/markers"
	"github.com/kmorrow11/arstory/pkg/session"
)

// MockStorage is an in-memory Storage implementation for tests.
type MockStorage struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*session.Session
	experiences map[string]*experience.Experience
	markerSets  []markers.MarkerSet

	// Error injection
	PingError error
	SaveError error
	LoadError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a mock pre-loaded with one valid experience
// under "foo_experience.json".
func NewMockStorage() *MockStorage {
	m := &MockStorage{
		sessions:    make(map[uuid.UUID]*session.Session),
		experiences: make(map[string]*experience.Experience),
	}
	m.AddExperience("foo_experience.json", DefaultTestExperience())
	return m
}

// DefaultTestExperience returns a minimal valid three-chapter experience.
func DefaultTestExperience() *experience.Experience {
	return &experience.Experience{
		Name:     "Foo Experience",
		FileName: "foo_experience.json",
		Chapters: []experience.Chapter{
			{ID: "chapter_1", Title: "The Discovery", Marker: "marker1", Overlay: "chapter_1_text", OverlayText: "Chapter one.", ContentGroup: []string{"crystal"}},
			{ID: "chapter_2", Title: "The Portal", Marker: "marker2", Overlay: "chapter_2_text", OverlayText: "Chapter two.", ContentGroup: []string{"portal_ring"}},
			{ID: "chapter_3", Title: "Revelation", Marker: "marker3", Overlay: "chapter_3_text", OverlayText: "Chapter three.", ContentGroup: []string{"orb_a", "orb_b"}},
		},
		Elements: map[string]experience.SceneElement{
			"chapter_1_text": {Primitive: "text"},
			"chapter_2_text": {Primitive: "text"},
			"chapter_3_text": {Primitive: "text"},
			"crystal":        {Primitive: "box", Color: "#4CC3D9"},
			"portal_ring":    {Primitive: "torus", Color: "#7B2D8E"},
			"orb_a":          {Primitive: "sphere", Color: "#FFC65D"},
			"orb_b":          {Primitive: "sphere", Color: "#FFC65D"},
		},
		Objects: map[string]experience.InteractiveObject{
			"portal": {Role: experience.RolePortal, Element: "portal_ring"},
			"orb_a":  {Role: experience.RoleRevelation, Element: "orb_a"},
			"orb_b":  {Role: experience.RoleRevelation, Element: "orb_b"},
		},
		Palette:        []string{"#FFC65D", "#D95B43", "#542437"},
		CompletionText: "The journey is complete.",
	}
}

// AddExperience registers an experience under a filename.
func (m *MockStorage) AddExperience(filename string, e *experience.Experience) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.experiences[filename] = e
}

// SetMarkerSets registers marker sets returned by ListMarkerSets.
func (m *MockStorage) SetMarkerSets(sets []markers.MarkerSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markerSets = sets
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.PingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveSession(ctx context.Context, id uuid.UUID, s *session.Session) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.sessions[id] = &copied
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStorage) ListExperiences(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]string, len(m.experiences))
	for filename, e := range m.experiences {
		result[e.Name] = filename
	}
	return result, nil
}

func (m *MockStorage) GetExperience(ctx context.Context, filename string) (*experience.Experience, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.experiences[filename]
	if !ok {
		return nil, fmt.Errorf("experience not found: %s", filename)
	}
	return e, nil
}

func (m *MockStorage) ListMarkerSets(ctx context.Context) ([]markers.MarkerSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.markerSets, nil
}
