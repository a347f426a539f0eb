package session

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/carlothq/carlot-backend/pkg/errors"
)

// Store is the subset of the redis client used for session bookkeeping.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(accessID string) string
}

// Manager tracks which access tokens are backed by a live server-side session.
// A token whose session has been revoked stops working even before it expires.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Create records a session for the given token ID.
func (m *Manager) Create(ctx context.Context, tokenID string, userID string) error {
	if tokenID == "" {
		return apperrors.New(apperrors.CodeValidation, "token id is required")
	}
	if err := m.store.Set(ctx, m.store.SessionKey(tokenID), userID, m.ttl); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "storing session")
	}
	return nil
}

// Validate returns the user ID bound to the session, or an unauthorized error
// when the session is missing or expired.
func (m *Manager) Validate(ctx context.Context, tokenID string) (string, error) {
	userID, err := m.store.Get(ctx, m.store.SessionKey(tokenID))
	if err != nil {
		if err == goredis.Nil {
			return "", apperrors.New(apperrors.CodeUnauthorized, "session expired or revoked")
		}
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "looking up session")
	}
	return userID, nil
}

// Revoke ends the session for the given token ID. Revoking an already-absent
// session is not an error.
func (m *Manager) Revoke(ctx context.Context, tokenID string) error {
	if err := m.store.Del(ctx, m.store.SessionKey(tokenID)); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, fmt.Sprintf("revoking session %s", tokenID))
	}
	return nil
}
