package experience

import (
	"fmt"
	"regexp"
	"sort"
)

// Object roles within a chapter's content group.
const (
	RolePortal     = "portal"
	RoleRevelation = "revelation"
)

// Chapter is one narrative stage, gated behind a tracking marker.
type Chapter struct {
	ID           string   `json:"id"`            // e.g. "chapter_1"
	Title        string   `json:"title"`         // e.g. "The Discovery"
	Marker       string   `json:"marker"`        // marker ID the tracker reports, e.g. "marker1"
	Overlay      string   `json:"overlay"`       // element ID of the narrative text overlay
	OverlayText  string   `json:"overlay_text"`  // narrative text shown while the marker is visible
	ContentGroup []string `json:"content_group"` // element IDs anchored to this chapter's marker
}

// SceneElement is a preset 3D primitive or text element in the scene markup.
// The engine only ever toggles visibility and rewrites color/text attributes;
// rendering belongs to the AR frameworks on the client.
type SceneElement struct {
	Primitive string `json:"primitive"`           // e.g. "box", "sphere", "torus", "text"
	Color     string `json:"color,omitempty"`     // base hex color, e.g. "#4CC3D9"
	Text      string `json:"text,omitempty"`      // initial value for text primitives
	Animation string `json:"animation,omitempty"` // client-side animation hint, e.g. "rotate"
}

// InteractiveObject is a clickable scene element.
type InteractiveObject struct {
	Role    string `json:"role"`    // "portal" or "revelation"
	Element string `json:"element"` // scene element the object styles
}

// Experience is the template for an AR narrative session: three sequential
// chapters, their scene elements, and the interactive objects that gate and
// decorate the final chapter.
type Experience struct {
	Name           string                       `json:"name"`
	FileName       string                       `json:"file_name"`
	Story          string                       `json:"story"`
	Chapters       []Chapter                    `json:"chapters"`
	Elements       map[string]SceneElement      `json:"elements"`
	Objects        map[string]InteractiveObject `json:"objects"`
	Palette        []string                     `json:"palette"` // colors cycled by revelation clicks
	CompletionText string                       `json:"completion_text,omitempty"`
}

// ChapterCount is fixed by the narrative format: discovery, portal, revelation.
const ChapterCount = 3

// ChapterForMarker returns the chapter anchored to the given marker ID
// and its position in the unlock sequence.
func (e *Experience) ChapterForMarker(marker string) (int, *Chapter, bool) {
	for i := range e.Chapters {
		if e.Chapters[i].Marker == marker {
			return i, &e.Chapters[i], true
		}
	}
	return 0, nil, false
}

// Portal returns the ID of the portal object, or "" if the experience
// has none.
func (e *Experience) Portal() string {
	for id, obj := range e.Objects {
		if obj.Role == RolePortal {
			return id
		}
	}
	return ""
}

// RevelationObjects returns the IDs of all revelation objects in a stable
// order.
func (e *Experience) RevelationObjects() []string {
	var ids []string
	for id, obj := range e.Objects {
		if obj.Role == RoleRevelation {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Object looks up an interactive object by ID.
func (e *Experience) Object(id string) (InteractiveObject, bool) {
	obj, ok := e.Objects[id]
	return obj, ok
}

var (
	idRegex  = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	hexRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Validate checks structural invariants of the experience definition.
// It returns the first problem found.
func (e *Experience) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("experience name is required")
	}
	if len(e.Chapters) != ChapterCount {
		return fmt.Errorf("experience must have exactly %d chapters, got %d", ChapterCount, len(e.Chapters))
	}

	seenMarkers := make(map[string]bool)
	for i, ch := range e.Chapters {
		if !idRegex.MatchString(ch.ID) {
			return fmt.Errorf("chapter %d ID %q must be lowercase snake_case", i+1, ch.ID)
		}
		if ch.Marker == "" {
			return fmt.Errorf("chapter %q has no marker", ch.ID)
		}
		if seenMarkers[ch.Marker] {
			return fmt.Errorf("marker %q is assigned to more than one chapter", ch.Marker)
		}
		seenMarkers[ch.Marker] = true
		if ch.Overlay == "" {
			return fmt.Errorf("chapter %q has no overlay element", ch.ID)
		}
		if _, ok := e.Elements[ch.Overlay]; !ok {
			return fmt.Errorf("chapter %q overlay references unknown element %q", ch.ID, ch.Overlay)
		}
		for _, el := range ch.ContentGroup {
			if _, ok := e.Elements[el]; !ok {
				return fmt.Errorf("chapter %q content group references unknown element %q", ch.ID, el)
			}
		}
	}

	portals := 0
	for id, obj := range e.Objects {
		if !idRegex.MatchString(id) {
			return fmt.Errorf("object ID %q must be lowercase snake_case", id)
		}
		switch obj.Role {
		case RolePortal:
			portals++
		case RoleRevelation:
		default:
			return fmt.Errorf("object %q has unknown role %q", id, obj.Role)
		}
		if _, ok := e.Elements[obj.Element]; !ok {
			return fmt.Errorf("object %q references unknown element %q", id, obj.Element)
		}
	}
	if portals != 1 {
		return fmt.Errorf("experience must have exactly one portal object, got %d", portals)
	}
	if len(e.RevelationObjects()) == 0 {
		return fmt.Errorf("experience must have at least one revelation object")
	}

	if len(e.Palette) < 2 {
		return fmt.Errorf("palette must have at least 2 colors, got %d", len(e.Palette))
	}
	for _, c := range e.Palette {
		if !hexRegex.MatchString(c) {
			return fmt.Errorf("palette color %q is not a hex color", c)
		}
	}
	for id, el := range e.Elements {
		if !idRegex.MatchString(id) {
			return fmt.Errorf("element ID %q must be lowercase snake_case", id)
		}
		if el.Color != "" && !hexRegex.MatchString(el.Color) {
			return fmt.Errorf("element %q color %q is not a hex color", id, el.Color)
		}
	}

	return nil
}
