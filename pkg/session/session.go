// Package session manages per-client explorer state for the HTTP server.
//
// Each browser client gets a session holding its own disclosure state:
// journey phase, focus selection, category checkboxes, and view mode.
// Sessions expire after a TTL and are identified by a uuid carried in a
// cookie.
//
// Two backends implement [Store]:
//   - memory: in-process map, the default for single-instance serving
//   - redis: shared store for multi-instance deployments
//
// # Usage
//
//	store := session.NewMemoryStore()
//
//	sess := session.New(disclosure.NewState(), session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if errors.Is(err, session.ErrExpired) {
//	    // issue a fresh session
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tablescape/foodweb/pkg/disclosure"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores one client's explorer state.
type Session struct {
	ID        string           `json:"id"`
	State     disclosure.State `json:"state"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// New creates a session with a fresh uuid and the given state.
func New(state disclosure.State, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		State:     state,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if absent, ErrExpired if past its TTL.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op for Redis,
	// where key TTLs handle expiry).
	Cleanup(ctx context.Context) error
}
