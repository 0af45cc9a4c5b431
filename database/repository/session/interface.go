package sessionRepo

import (
	"context"
	"errors"

	"fleetbooking/models"
)

var (
	// ErrNotFound is returned when a session is missing, expired or was discarded.
	ErrNotFound = errors.New("session not found")
	// ErrConflict is returned when the session changed since it was loaded.
	ErrConflict = errors.New("session was modified concurrently")
)

// SessionStore persists booking wizard sessions between requests.
//
// Save is a compare-and-set on session.Version: version 0 creates the
// session, any other version must match the stored one. A session that is
// gone is never written back. On success session.Version is advanced.
type SessionStore interface {
	Save(ctx context.Context, session *models.BookingSession) error
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Delete(ctx context.Context, sessionID string) error

	// AcquireSubmitLock returns ok=false when another submission holds the
	// lock. The token must be handed back to ReleaseSubmitLock.
	AcquireSubmitLock(ctx context.Context, sessionID string) (token string, ok bool, err error)
	// ReleaseSubmitLock only removes the lock while token still owns it.
	ReleaseSubmitLock(ctx context.Context, sessionID, token string) error
}
