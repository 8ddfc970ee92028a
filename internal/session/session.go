// Package session keeps the per-visitor guest session in Redis. A session
// starts anonymous, may be bound to a user once, and records whether its
// guest cart has been merged.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bolpur-mart/internal/model"
)

// KeyPrefix namespaces sessions in Redis.
const KeyPrefix = "bolpur-mart-session:"

const (
	fieldCreatedAt = "created_at"
	fieldUserID    = "user_id"
	fieldMerged    = "merged"
	fieldMergedAt  = "merged_at"
)

// Manager defines operations on visitor sessions.
type Manager interface {
	Create(ctx context.Context) (*model.Session, error)
	Get(ctx context.Context, guestID string) (*model.Session, error)
	Authenticate(ctx context.Context, guestID, userID string) (*model.Session, error)
	ClaimMerge(ctx context.Context, guestID string) (bool, error)
	ReleaseMerge(ctx context.Context, guestID string) error
	Destroy(ctx context.Context, guestID string) error
}

type redisManager struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewManager creates a Redis-backed session manager.
func NewManager(client redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) Manager {
	return &redisManager{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "session").Logger(),
		now:    time.Now,
	}
}

func sessionKey(guestID string) string {
	return KeyPrefix + guestID
}

// Create issues a new anonymous session.
func (m *redisManager) Create(ctx context.Context) (*model.Session, error) {
	sess := &model.Session{
		GuestID:   uuid.New().String(),
		CreatedAt: m.now().UTC(),
	}

	key := sessionKey(sess.GuestID)
	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, key, fieldCreatedAt, sess.CreatedAt.Unix())
	pipe.Expire(ctx, key, m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		m.logger.Error().Err(err).Msg("Failed to create session")
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.logger.Debug().Str("guest_id", sess.GuestID).Msg("Session created")
	return sess, nil
}

// Get returns the session, or ErrSessionNotFound when it is unknown or expired.
func (m *redisManager) Get(ctx context.Context, guestID string) (*model.Session, error) {
	if guestID == "" {
		return nil, model.ErrSessionNotFound
	}

	fields, err := m.client.HGetAll(ctx, sessionKey(guestID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, model.ErrSessionNotFound
	}

	return decode(guestID, fields)
}

func decode(guestID string, fields map[string]string) (*model.Session, error) {
	sess := &model.Session{
		GuestID: guestID,
		UserID:  fields[fieldUserID],
		Merged:  fields[fieldMerged] == "1",
	}

	created, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session created_at: %w", err)
	}
	sess.CreatedAt = time.Unix(created, 0).UTC()

	if raw, ok := fields[fieldMergedAt]; ok {
		mergedAt, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse session merged_at: %w", err)
		}
		t := time.Unix(mergedAt, 0).UTC()
		sess.MergedAt = &t
	}
	return sess, nil
}

// Authenticate binds the session to userID and extends its lifetime.
func (m *redisManager) Authenticate(ctx context.Context, guestID, userID string) (*model.Session, error) {
	if userID == "" {
		return nil, model.ErrUnauthenticated
	}

	sess, err := m.Get(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != "" && sess.UserID != userID {
		return nil, model.ErrForbidden
	}

	key := sessionKey(guestID)
	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, key, fieldUserID, userID)
	pipe.Expire(ctx, key, m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		m.logger.Error().Err(err).Str("guest_id", guestID).Msg("Failed to authenticate session")
		return nil, fmt.Errorf("failed to authenticate session: %w", err)
	}

	sess.UserID = userID
	return sess, nil
}

// maxClaimRetries bounds optimistic retries when the session hash changes
// while a merge claim is in flight.
const maxClaimRetries = 5

// ClaimMerge atomically marks the session's guest cart as merged. It returns
// false when an earlier call already claimed it. The claim is written only if
// the session still exists, so an expired session is never recreated.
func (m *redisManager) ClaimMerge(ctx context.Context, guestID string) (bool, error) {
	key := sessionKey(guestID)
	var claimed bool

	txf := func(tx *redis.Tx) error {
		claimed = false
		values, err := tx.HMGet(ctx, key, fieldCreatedAt, fieldMerged).Result()
		if err != nil {
			return err
		}
		if values[0] == nil {
			return model.ErrSessionNotFound
		}
		if values[1] != nil {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldMerged, "1", fieldMergedAt, m.now().Unix())
			return nil
		})
		if err != nil {
			return err
		}
		claimed = true
		return nil
	}

	for attempt := 0; attempt < maxClaimRetries; attempt++ {
		err := m.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return claimed, nil
		case errors.Is(err, redis.TxFailedErr):
			m.logger.Debug().Str("guest_id", guestID).Int("attempt", attempt+1).Msg("Session changed during merge claim, retrying")
			continue
		case errors.Is(err, model.ErrSessionNotFound):
			return false, err
		default:
			return false, fmt.Errorf("failed to claim merge: %w", err)
		}
	}
	return false, fmt.Errorf("failed to claim merge: %w", redis.TxFailedErr)
}

// ReleaseMerge gives a claim back after a failed merge.
func (m *redisManager) ReleaseMerge(ctx context.Context, guestID string) error {
	if err := m.client.HDel(ctx, sessionKey(guestID), fieldMerged, fieldMergedAt).Err(); err != nil {
		return fmt.Errorf("failed to release merge claim: %w", err)
	}
	return nil
}

// Destroy removes the session. Destroying an unknown session is not an error.
func (m *redisManager) Destroy(ctx context.Context, guestID string) error {
	err := m.client.Del(ctx, sessionKey(guestID)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
