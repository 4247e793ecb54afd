package session

import "github.com/kmorrow11/arstory/pkg/experience"

// ElementView is the attribute set the client writes onto one scene
// element: visibility, current color, current text.
type ElementView struct {
	Visible bool   `json:"visible"`
	Color   string `json:"color,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Render derives the full scene attribute map from a session. It never
// mutates state; rendering is a projection of (session, experience).
//
// Visibility rules:
//   - A chapter's overlay is visible while its marker is in view and the
//     chapter is unlocked (the reducer guarantees the overlay flag is only
//     ever set for unlocked chapters).
//   - A chapter's content group follows its overlay, except the final
//     chapter's content group, which stays visible once the portal has
//     been activated even before marker 3 is found.
func Render(s *Session, exp *experience.Experience) map[string]ElementView {
	views := make(map[string]ElementView, len(exp.Elements))
	for id, el := range exp.Elements {
		views[id] = ElementView{Color: el.Color, Text: el.Text}
	}

	for i, ch := range exp.Chapters {
		overlayVisible := s.Overlays[ch.Marker]
		contentVisible := overlayVisible
		if i == len(exp.Chapters)-1 && s.Progress >= Chapter3Active {
			contentVisible = true
		}

		if v, ok := views[ch.Overlay]; ok {
			v.Visible = overlayVisible
			if v.Text == "" {
				v.Text = ch.OverlayText
			}
			views[ch.Overlay] = v
		}
		for _, el := range ch.ContentGroup {
			if v, ok := views[el]; ok {
				v.Visible = contentVisible
				views[el] = v
			}
		}
	}

	// Revelation clicks recolor the element behind the object.
	for id, obj := range exp.Objects {
		if obj.Role != experience.RoleRevelation {
			continue
		}
		if !s.Clicked[id] {
			continue
		}
		if v, ok := views[obj.Element]; ok {
			v.Color = exp.Palette[s.PaletteIndex[id]]
			views[obj.Element] = v
		}
	}

	return views
}

// CompletionVisible reports whether the completion message should be
// shown for the session.
func CompletionVisible(s *Session) bool {
	return s.Progress >= Completed
}
