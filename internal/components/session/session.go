// Package session tracks the authenticated identity and the last search
// result for a browser session. Sessions live server-side behind an opaque
// ID; the browser only ever holds the encrypted ID.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Shadpls/Eat-Already/internal/shared/config"
)

var ErrNotFound = errors.New("session not found")

type (
	// Result is the projection of one restaurant as shown on the results
	// page. Address keeps Yelp's display ordering.
	Result struct {
		Name     string   `json:"name"`
		Address  []string `json:"address"`
		ImageURL string   `json:"image_url"`
		Phone    string   `json:"phone"`
		URL      string   `json:"url"`
	}

	Session struct {
		ID         uuid.UUID `json:"id"`
		UserID     int64     `json:"user_id"`
		Username   string    `json:"username"`
		CreatedAt  time.Time `json:"created_at"`
		LastResult *Result   `json:"last_result,omitempty"`
	}

	// Store is the session store contract: get/set/clear keyed by the
	// session ID, independent of the cookie layer.
	Store interface {
		Create(ctx context.Context, s *Session) error
		Get(ctx context.Context, id uuid.UUID) (*Session, error)
		Set(ctx context.Context, s *Session) error
		Clear(ctx context.Context, id uuid.UUID) error
	}
)

// New binds a fresh session to an authenticated user.
func New(userID int64, username string) *Session {
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
}

// NewStore selects the Redis-backed store when REDIS_ADDR is configured and
// falls back to the in-memory store otherwise.
func NewStore(cfg *config.Config, logger zerolog.Logger) (Store, error) {
	if cfg.RedisAddr != "" {
		logger.Debug().Str("addr", cfg.RedisAddr).Msg("Using Redis session store")
		return NewRedisStore(cfg.RedisAddr, cfg.SessionTTL)
	}
	logger.Debug().Msg("Using in-memory session store")
	return NewMemoryStore(cfg.SessionTTL), nil
}
