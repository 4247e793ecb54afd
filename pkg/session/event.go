package session

import "fmt"

// EventType identifies the kind of input an event carries.
type EventType string

const (
	// EventMarkerFound is emitted by the tracker when a marker enters view.
	EventMarkerFound EventType = "marker_found"

	// EventMarkerLost is emitted by the tracker when a marker leaves view.
	EventMarkerLost EventType = "marker_lost"

	// EventClick is emitted when the user taps an interactive object.
	EventClick EventType = "click"
)

// Event is a single symbolic input from the tracker or the user.
// The engine never sees raw marker data; the tracking collaborator
// reduces it to these events keyed by marker ID.
type Event struct {
	Type   EventType `json:"type"`
	Marker string    `json:"marker,omitempty"` // set for marker_found / marker_lost
	Object string    `json:"object,omitempty"` // set for click
}

// MarkerFound builds a marker_found event.
func MarkerFound(marker string) Event {
	return Event{Type: EventMarkerFound, Marker: marker}
}

// MarkerLost builds a marker_lost event.
func MarkerLost(marker string) Event {
	return Event{Type: EventMarkerLost, Marker: marker}
}

// Click builds a click event for an interactive object.
func Click(object string) Event {
	return Event{Type: EventClick, Object: object}
}

func (e Event) Validate() error {
	switch e.Type {
	case EventMarkerFound, EventMarkerLost:
		if e.Marker == "" {
			return fmt.Errorf("%s event requires a marker", e.Type)
		}
	case EventClick:
		if e.Object == "" {
			return fmt.Errorf("click event requires an object")
		}
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}
