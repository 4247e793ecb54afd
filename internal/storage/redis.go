package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kmorrow11/arstory/pkg/experience"
	"github.com/kmorrow11/arstory/pkg/markers"
	"github.com/kmorrow11/arstory/pkg/session"
)

// RedisStorage implements the Storage interface using Redis for sessions
// and the filesystem for static resources (experiences, marker assets).
type RedisStorage struct {
	client     *redis.Client
	logger     *slog.Logger
	dataDir    string
	sessionTTL time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, dataDir string, sessionTTL time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)

	if dataDir == "" {
		dataDir = "./data"
	}
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}

	return &RedisStorage{
		client:     rdb,
		logger:     logger,
		dataDir:    dataDir,
		sessionTTL: sessionTTL,
	}, nil
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// GetClient returns the underlying Redis client for pub/sub and locks.
func (r *RedisStorage) GetClient() *redis.Client {
	return r.client
}

// Session operations (Redis-backed)

func (r *RedisStorage) SaveSession(ctx context.Context, id uuid.UUID, s *session.Session) error {
	s.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Error("Failed to marshal session", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := "session:" + id.String()
	cmd := r.client.Set(ctx, key, string(data), r.sessionTTL)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save session", "uuid", id, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	key := "session:" + id.String()
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Session not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		r.logger.Warn("Session not found", "uuid", id)
		return nil, nil
	}

	var s session.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		r.logger.Error("Failed to unmarshal session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &s, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	key := "session:" + id.String()
	cmd := r.client.Del(ctx, key)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete session", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Experience operations (filesystem-backed)

func (r *RedisStorage) ListExperiences(ctx context.Context) (map[string]string, error) {
	experiencesDir := filepath.Join(r.dataDir, "experiences")
	experiences := make(map[string]string)

	err := filepath.WalkDir(experiencesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		file, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("Failed to read experience file", "path", path, "error", err)
			return nil
		}

		var e experience.Experience
		if err := json.Unmarshal(file, &e); err != nil {
			r.logger.Warn("Failed to unmarshal experience file", "path", path, "error", err)
			return nil
		}

		filename := filepath.Base(path)
		experiences[e.Name] = filename
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to walk experiences directory", "error", err)
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}

	return experiences, nil
}

func (r *RedisStorage) GetExperience(ctx context.Context, filename string) (*experience.Experience, error) {
	path := filepath.Join(r.dataDir, "experiences", filename)

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("experience not found: %s", filename)
		}
		return nil, fmt.Errorf("failed to read experience file: %w", err)
	}

	var e experience.Experience
	if err := json.Unmarshal(file, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal experience: %w", err)
	}
	e.FileName = filename

	return &e, nil
}

// Marker asset operations (filesystem-backed)

func (r *RedisStorage) ListMarkerSets(ctx context.Context) ([]markers.MarkerSet, error) {
	return markers.Scan(filepath.Join(r.dataDir, "markers"))
}
