package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kmorrow11/arstory/pkg/session"
)

// Request is one tracker event waiting in the ingest queue. Tracker
// devices push these faster than the reducer needs to run, so they are
// buffered in Redis and drained by workers.
type Request struct {
	RequestID  string        `json:"request_id"`
	SessionID  uuid.UUID     `json:"session_id"`
	Event      session.Event `json:"event"`
	EnqueuedAt time.Time     `json:"enqueued_at"`
}

// NewRequest wraps a session event for queueing.
func NewRequest(sessionID uuid.UUID, ev session.Event) *Request {
	return &Request{
		RequestID:  uuid.New().String(),
		SessionID:  sessionID,
		Event:      ev,
		EnqueuedAt: time.Now().UTC(),
	}
}

// ToJSON serializes the request for Redis storage.
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON deserializes a request from Redis.
func FromJSON(data []byte) (*Request, error) {
	var r Request
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
