package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bolpur-mart/internal/model"
)

// GuestKeyPrefix namespaces guest carts in Redis.
const GuestKeyPrefix = "bolpur-mart-guest-cart:"

const maxTxRetries = 5

type guestStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
}

// NewGuestStore creates a Store that keeps each guest cart as a JSON list under
// its own Redis key, refreshing ttl on every write.
func NewGuestStore(client redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) Store {
	return &guestStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "guest_cart").Logger(),
	}
}

func guestKey(guestID string) string {
	return GuestKeyPrefix + guestID
}

func decodeItems(raw []byte) ([]model.CartItem, error) {
	items := []model.CartItem{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return items, nil
}

func (s *guestStore) Load(ctx context.Context, guestID string) ([]model.CartItem, error) {
	raw, err := s.client.Get(ctx, guestKey(guestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.CartItem{}, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("guest_id", guestID).Msg("Failed to load guest cart")
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}
	return decodeItems(raw)
}

func (s *guestStore) Update(ctx context.Context, guestID string, fn MutateFunc) ([]model.CartItem, error) {
	key := guestKey(guestID)
	var result []model.CartItem

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		items, err := decodeItems(raw)
		if err != nil {
			return err
		}

		next, err := fn(items)
		if err != nil {
			return err
		}
		if next == nil {
			next = []model.CartItem{}
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode cart items: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(next) == 0 {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = next
		return nil
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug().Str("guest_id", guestID).Int("attempt", attempt+1).Msg("Guest cart changed during update, retrying")
			continue
		}
		var de *model.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("guest_id", guestID).Msg("Failed to update guest cart")
		return nil, fmt.Errorf("failed to update guest cart: %w", err)
	}
	return nil, fmt.Errorf("failed to update guest cart: %w", redis.TxFailedErr)
}

func (s *guestStore) Delete(ctx context.Context, guestID string) error {
	if err := s.client.Del(ctx, guestKey(guestID)).Err(); err != nil {
		s.logger.Error().Err(err).Str("guest_id", guestID).Msg("Failed to delete guest cart")
		return fmt.Errorf("failed to delete guest cart: %w", err)
	}
	return nil
}
