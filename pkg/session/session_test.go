package session

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNewSession(t *testing.T) {
	s := NewSession("midnight_relic.json")

	if s.ID == uuid.Nil {
		t.Error("Expected non-nil session ID")
	}
	if s.Experience != "midnight_relic.json" {
		t.Errorf("Expected experience filename, got %q", s.Experience)
	}
	if s.Progress != NotStarted {
		t.Errorf("Expected not_started, got %s", s.Progress)
	}
	if s.Overlays == nil || s.PaletteIndex == nil || s.Clicked == nil {
		t.Error("Expected state maps initialized")
	}
}

func TestSession_JSONRoundTrip(t *testing.T) {
	exp := testExperience()
	s := applyAll(exp, MarkerFound("marker1"), MarkerFound("marker2"), Click("portal"), Click("orb_a"))

	data, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("Failed to marshal session: %v", err)
	}

	var restored Session
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal session: %v", err)
	}

	if restored.Progress != Chapter3Active {
		t.Errorf("Expected chapter_3_active after round trip, got %s", restored.Progress)
	}
	if !restored.PortalActivated {
		t.Error("Expected portal_activated preserved")
	}
	if restored.PaletteIndex["orb_a"] != 1 {
		t.Errorf("Expected palette index 1 for orb_a, got %d", restored.PaletteIndex["orb_a"])
	}
}

func TestProgress_UnmarshalRejectsUnknown(t *testing.T) {
	var p Progress
	if err := json.Unmarshal([]byte(`"chapter_9_active"`), &p); err == nil {
		t.Error("Expected error for unknown progress name")
	}
}
