package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bolpur-mart/internal/model"
)

// GuestKeyPrefix namespaces guest wishlists in Redis.
const GuestKeyPrefix = "bolpur-mart-guest-wishlist:"

type guestStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewGuestStore creates a Store backed by one Redis sorted set per guest,
// scored by the time each product was added.
func NewGuestStore(client redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) Store {
	return &guestStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "guest_wishlist").Logger(),
		now:    time.Now,
	}
}

func guestKey(guestID string) string {
	return GuestKeyPrefix + guestID
}

func (s *guestStore) List(ctx context.Context, guestID string) ([]model.WishlistItem, error) {
	entries, err := s.client.ZRangeWithScores(ctx, guestKey(guestID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list guest wishlist: %w", err)
	}

	items := make([]model.WishlistItem, 0, len(entries))
	for _, entry := range entries {
		productID, _ := entry.Member.(string)
		items = append(items, model.WishlistItem{
			UserID:    model.GuestUserID,
			ProductID: productID,
			CreatedAt: time.UnixMilli(int64(entry.Score)).UTC(),
		})
	}
	return items, nil
}

func (s *guestStore) Add(ctx context.Context, guestID string, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	score := float64(s.now().UnixMilli())
	members := make([]redis.Z, len(productIDs))
	for i, id := range productIDs {
		members[i] = redis.Z{Score: score, Member: id}
	}

	key := guestKey(guestID)
	pipe := s.client.TxPipeline()
	pipe.ZAddNX(ctx, key, members...)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error().Err(err).Str("guest_id", guestID).Msg("Failed to add to guest wishlist")
		return fmt.Errorf("failed to add to guest wishlist: %w", err)
	}
	return nil
}

func (s *guestStore) Remove(ctx context.Context, guestID, productID string) error {
	if err := s.client.ZRem(ctx, guestKey(guestID), productID).Err(); err != nil {
		return fmt.Errorf("failed to remove from guest wishlist: %w", err)
	}
	return nil
}

func (s *guestStore) Contains(ctx context.Context, guestID, productID string) (bool, error) {
	err := s.client.ZScore(ctx, guestKey(guestID), productID).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check guest wishlist: %w", err)
	}
	return true, nil
}

func (s *guestStore) Clear(ctx context.Context, guestID string) error {
	if err := s.client.Del(ctx, guestKey(guestID)).Err(); err != nil {
		return fmt.Errorf("failed to clear guest wishlist: %w", err)
	}
	return nil
}
