package repository

import (
	"context"
	"fmt"

	"bolpur-mart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type wishlistRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool *pgxpool.Pool, logger zerolog.Logger) WishlistRepository {
	return &wishlistRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "wishlist").Logger(),
	}
}

func (r *wishlistRepository) List(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, product_id, created_at
		FROM wishlists
		WHERE user_id = $1
		ORDER BY created_at, product_id
	`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query wishlist")
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.WishlistItem])
	if err != nil {
		return nil, fmt.Errorf("failed to scan wishlist: %w", err)
	}
	return items, nil
}

func (r *wishlistRepository) Add(ctx context.Context, userID string, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range productIDs {
		batch.Queue(`
			INSERT INTO wishlists (user_id, product_id) VALUES ($1, $2)
			ON CONFLICT (user_id, product_id) DO NOTHING
		`, userID, id)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, id := range productIDs {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Str("user_id", userID).Str("product_id", id).Msg("failed to add wishlist item")
			return fmt.Errorf("failed to add wishlist item: %w", err)
		}
	}
	return nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}

func (r *wishlistRepository) Contains(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlists WHERE user_id = $1 AND product_id = $2)`,
		userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return exists, nil
}

func (r *wishlistRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM wishlists WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}
