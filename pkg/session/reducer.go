package session

import (
	"time"

	"github.com/kmorrow11/arstory/pkg/experience"
)

// EffectType labels a state change produced by the reducer.
type EffectType string

const (
	EffectChapterUnlocked     EffectType = "chapter_unlocked"
	EffectOverlayShown        EffectType = "overlay_shown"
	EffectOverlayHidden       EffectType = "overlay_hidden"
	EffectPortalActivated     EffectType = "portal_activated"
	EffectObjectStyled        EffectType = "object_styled"
	EffectExperienceCompleted EffectType = "experience_completed"
)

// Effect describes one observable consequence of applying an event.
// An event that the narrative state does not permit produces no effects.
type Effect struct {
	Type    EffectType `json:"type"`
	Chapter string     `json:"chapter,omitempty"`
	Marker  string     `json:"marker,omitempty"`
	Object  string     `json:"object,omitempty"`
	Color   string     `json:"color,omitempty"`
}

// Apply is the pure reducer for the chapter-unlock state machine.
// It takes the current session by value and returns the next session plus
// the effects the transition produced. Premature, duplicate and unknown
// events are silent no-ops: marker tracking is noisy in the real world,
// so out-of-order input is tolerated rather than rejected.
func Apply(s Session, exp *experience.Experience, ev Event) (Session, []Effect) {
	next := s.clone()
	next.EventCount++
	next.UpdatedAt = time.Now().UTC()

	var effects []Effect
	switch ev.Type {
	case EventMarkerFound:
		effects = applyMarkerFound(&next, exp, ev.Marker)
	case EventMarkerLost:
		effects = applyMarkerLost(&next, exp, ev.Marker)
	case EventClick:
		effects = applyClick(&next, exp, ev.Object)
	}
	return next, effects
}

func applyMarkerFound(s *Session, exp *experience.Experience, marker string) []Effect {
	idx, ch, ok := exp.ChapterForMarker(marker)
	if !ok {
		return nil
	}

	var effects []Effect
	switch idx {
	case 0:
		if s.Progress < Chapter1Active {
			s.Progress = Chapter1Active
			effects = append(effects, Effect{Type: EffectChapterUnlocked, Chapter: ch.ID, Marker: marker})
		}
	case 1:
		// Chapter 2 only unlocks after chapter 1 has been seen.
		if s.Progress < Chapter1Active {
			return nil
		}
		if s.Progress < Chapter2Active {
			s.Progress = Chapter2Active
			effects = append(effects, Effect{Type: EffectChapterUnlocked, Chapter: ch.ID, Marker: marker})
		}
	case 2:
		// The portal is the gateway to the final chapter: marker 3 shows
		// nothing until the portal has been activated.
		if s.Progress < Chapter3Active {
			return nil
		}
	}

	if !s.Overlays[marker] {
		s.Overlays[marker] = true
		effects = append(effects, Effect{Type: EffectOverlayShown, Chapter: ch.ID, Marker: marker})
	}
	return effects
}

func applyMarkerLost(s *Session, exp *experience.Experience, marker string) []Effect {
	_, ch, ok := exp.ChapterForMarker(marker)
	if !ok || !s.Overlays[marker] {
		return nil
	}

	// Progress is sticky: losing a marker hides the overlay only.
	s.Overlays[marker] = false
	return []Effect{{Type: EffectOverlayHidden, Chapter: ch.ID, Marker: marker}}
}

func applyClick(s *Session, exp *experience.Experience, object string) []Effect {
	obj, ok := exp.Object(object)
	if !ok {
		return nil
	}

	switch obj.Role {
	case experience.RolePortal:
		// Portal activation requires chapter 2 to be live.
		if s.Progress < Chapter2Active || s.PortalActivated {
			return nil
		}
		s.PortalActivated = true
		effects := []Effect{{Type: EffectPortalActivated, Object: object}}
		if s.Progress < Chapter3Active {
			s.Progress = Chapter3Active
			ch := exp.Chapters[2]
			effects = append(effects, Effect{Type: EffectChapterUnlocked, Chapter: ch.ID, Marker: ch.Marker})
		}
		return effects

	case experience.RoleRevelation:
		if s.Progress < Chapter3Active || len(exp.Palette) == 0 {
			return nil
		}
		s.PaletteIndex[object] = (s.PaletteIndex[object] + 1) % len(exp.Palette)
		s.Clicked[object] = true
		effects := []Effect{{
			Type:   EffectObjectStyled,
			Object: object,
			Color:  exp.Palette[s.PaletteIndex[object]],
		}}
		if s.Progress < Completed && allClicked(s, exp) {
			s.Progress = Completed
			effects = append(effects, Effect{Type: EffectExperienceCompleted})
		}
		return effects
	}
	return nil
}

func allClicked(s *Session, exp *experience.Experience) bool {
	for _, id := range exp.RevelationObjects() {
		if !s.Clicked[id] {
			return false
		}
	}
	return true
}
