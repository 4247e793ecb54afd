package queue

import (
	"testing"

	"github.com/google/uuid"

	"github.com/kmorrow11/arstory/pkg/session"
)

func TestRequest_JSONRoundTrip(t *testing.T) {
	id := uuid.New()
	req := NewRequest(id, session.MarkerFound("marker2"))

	data, err := req.ToJSON()
	if err != nil {
		t.Fatalf("Failed to serialize request: %v", err)
	}

	restored, err := FromJSON(data)
	if err != nil {
		t.Fatalf("Failed to parse request: %v", err)
	}

	if restored.SessionID != id {
		t.Errorf("Session ID mismatch: expected %s, got %s", id, restored.SessionID)
	}
	if restored.Event.Type != session.EventMarkerFound || restored.Event.Marker != "marker2" {
		t.Errorf("Event mismatch: got %+v", restored.Event)
	}
	if restored.RequestID == "" {
		t.Error("Expected non-empty request ID")
	}
}

func TestFromJSON_Invalid(t *testing.T) {
	if _, err := FromJSON([]byte("{not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
