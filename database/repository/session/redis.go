// File: database/repository/session/redis.go
package sessionRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleetbooking/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	SessionKeyPrefix   = "bookingSession:"
	LockKeyPrefix      = "bookingSubmit:"
	TombstoneKeyPrefix = "bookingSessionDone:"
)

// releaseLockScript deletes the lock only when it still holds our token.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionStore keeps each session as JSON under a sliding TTL.
type RedisSessionStore struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisSessionStore builds a store. lockTTL bounds how long a crashed
// submission can block the session.
func NewRedisSessionStore(client *redis.Client, ttl, lockTTL time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &RedisSessionStore{client: client, ttl: ttl, lockTTL: lockTTL}
}

// LockTTL is how long a submit lock lives without being released.
func (s *RedisSessionStore) LockTTL() time.Duration {
	return s.lockTTL
}

// Save writes the session if nobody changed it since it was loaded, and
// refreshes its TTL.
func (s *RedisSessionStore) Save(ctx context.Context, session *models.BookingSession) error {
	key := SessionKeyPrefix + session.SessionID
	tombstone := TombstoneKeyPrefix + session.SessionID
	expected := session.Version

	next := *session
	next.Version = expected + 1
	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}

	txf := func(tx *redis.Tx) error {
		discarded, err := tx.Exists(ctx, tombstone).Result()
		if err != nil {
			return err
		}
		if discarded > 0 {
			return ErrNotFound
		}

		current, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expected != 0 {
				return ErrNotFound
			}
		case err != nil:
			return err
		default:
			if expected == 0 {
				return ErrConflict
			}
			var stored struct {
				Version int64 `json:"version"`
			}
			if err := json.Unmarshal(current, &stored); err != nil {
				return fmt.Errorf("failed to parse booking session: %w", err)
			}
			if stored.Version != expected {
				return ErrConflict
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	err = s.client.Watch(ctx, txf, key, tombstone)
	switch {
	case err == nil:
		session.Version = next.Version
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return ErrConflict
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	default:
		return fmt.Errorf("failed to store booking session: %w", err)
	}
}

// Get loads a session, returning ErrNotFound when it expired or never existed.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.client.Get(ctx, SessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}

	var session models.BookingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

// Delete discards the session for good: it removes the session and any
// submit lock and leaves a tombstone for the session's lifetime so late
// writers cannot bring it back.
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, SessionKeyPrefix+sessionID, LockKeyPrefix+sessionID)
		pipe.Set(ctx, TombstoneKeyPrefix+sessionID, time.Now().Unix(), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete booking session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) AcquireSubmitLock(ctx context.Context, sessionID string) (string, bool, error) {
	token := uuid.New().String()
	ok, err := s.client.SetNX(ctx, LockKeyPrefix+sessionID, token, s.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (s *RedisSessionStore) ReleaseSubmitLock(ctx context.Context, sessionID, token string) error {
	if err := releaseLockScript.Run(ctx, s.client, []string{LockKeyPrefix + sessionID}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}
	return nil
}
