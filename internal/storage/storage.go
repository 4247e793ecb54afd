package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/kmorrow11/arstory/pkg/experience"
	"github.com/kmorrow11/arstory/pkg/markers"
	"github.com/kmorrow11/arstory/pkg/session"
)

// Storage defines a unified interface for all storage operations.
// Sessions live in Redis; experience definitions and marker assets are
// static files under the data directory.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session operations (Redis-backed)
	SaveSession(ctx context.Context, id uuid.UUID, s *session.Session) error
	LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Experience operations (filesystem-backed)
	ListExperiences(ctx context.Context) (map[string]string, error)
	GetExperience(ctx context.Context, filename string) (*experience.Experience, error)

	// Marker asset operations (filesystem-backed)
	ListMarkerSets(ctx context.Context) ([]markers.MarkerSet, error)
}
