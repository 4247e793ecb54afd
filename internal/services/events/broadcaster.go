package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kmorrow11/arstory/pkg/session"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeChapterUnlocked  EventType = "chapter.unlocked"
	EventTypeOverlayShown     EventType = "overlay.shown"
	EventTypeOverlayHidden    EventType = "overlay.hidden"
	EventTypePortalActivated  EventType = "portal.activated"
	EventTypeObjectStyled     EventType = "object.styled"
	EventTypeSessionCompleted EventType = "session.completed"
	EventTypeSessionUpdated   EventType = "session.updated"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"session_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// effectEventType maps reducer effects onto broadcast event types.
func effectEventType(ef session.Effect) EventType {
	switch ef.Type {
	case session.EffectChapterUnlocked:
		return EventTypeChapterUnlocked
	case session.EffectOverlayShown:
		return EventTypeOverlayShown
	case session.EffectOverlayHidden:
		return EventTypeOverlayHidden
	case session.EffectPortalActivated:
		return EventTypePortalActivated
	case session.EffectObjectStyled:
		return EventTypeObjectStyled
	case session.EffectExperienceCompleted:
		return EventTypeSessionCompleted
	}
	return EventTypeSessionUpdated
}

// PublishEffects publishes one event per reducer effect.
func (b *Broadcaster) PublishEffects(ctx context.Context, sessionID uuid.UUID, effects []session.Effect) error {
	for _, ef := range effects {
		data := map[string]interface{}{}
		if ef.Chapter != "" {
			data["chapter"] = ef.Chapter
		}
		if ef.Marker != "" {
			data["marker"] = ef.Marker
		}
		if ef.Object != "" {
			data["object"] = ef.Object
		}
		if ef.Color != "" {
			data["color"] = ef.Color
		}

		event := Event{
			Type:      effectEventType(ef),
			SessionID: sessionID.String(),
			Data:      data,
		}
		if err := b.publishToSession(ctx, sessionID, event); err != nil {
			return err
		}
	}
	return nil
}

// PublishSessionUpdated publishes a session.updated event with the
// session's current progress.
func (b *Broadcaster) PublishSessionUpdated(ctx context.Context, sessionID uuid.UUID, progress session.Progress, eventCount int) error {
	event := Event{
		Type:      EventTypeSessionUpdated,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"progress":    progress.String(),
			"event_count": eventCount,
		},
	}
	return b.publishToSession(ctx, sessionID, event)
}

// Channel returns the pub/sub channel name for a session.
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("session-events:%s", sessionID.String())
}

// publishToSession publishes an event to the session-specific channel
func (b *Broadcaster) publishToSession(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
