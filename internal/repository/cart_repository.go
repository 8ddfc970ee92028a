package repository

import (
	"context"
	"fmt"

	"bolpur-mart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository keeps each user's cart as a single JSONB document so that a
// row lock covers the whole cart.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func (r *cartRepository) Load(ctx context.Context, userID string) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.pool.QueryRow(ctx, `SELECT items FROM carts WHERE user_id = $1`, userID).Scan(&items)
	if err != nil {
		if isNoRows(err) {
			return []model.CartItem{}, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return items, nil
}

func (r *cartRepository) Update(ctx context.Context, userID string, fn func(items []model.CartItem) ([]model.CartItem, error)) ([]model.CartItem, error) {
	var result []model.CartItem

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Make sure a row exists so FOR UPDATE has something to lock even for
		// a user with no cart yet.
		if _, err := tx.Exec(ctx, `
			INSERT INTO carts (user_id, items) VALUES ($1, '[]')
			ON CONFLICT (user_id) DO NOTHING
		`, userID); err != nil {
			return fmt.Errorf("failed to create cart row: %w", err)
		}

		items, err := r.LockTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		next, err := fn(items)
		if err != nil {
			return err
		}

		if err := r.write(ctx, tx, userID, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result == nil {
		result = []model.CartItem{}
	}
	return result, nil
}

func (r *cartRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (r *cartRepository) LockTx(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartItem, error) {
	var items []model.CartItem
	err := tx.QueryRow(ctx, `SELECT items FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&items)
	if err != nil {
		if isNoRows(err) {
			return []model.CartItem{}, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return items, nil
}

func (r *cartRepository) DeleteTx(ctx context.Context, tx pgx.Tx, userID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// write stores items, removing the row once the cart is empty.
func (r *cartRepository) write(ctx context.Context, tx pgx.Tx, userID string, items []model.CartItem) error {
	if len(items) == 0 {
		return r.DeleteTx(ctx, tx, userID)
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO carts (user_id, items, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = NOW()
	`, userID, items)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Int("items", len(items)).Msg("failed to write cart")
		return fmt.Errorf("failed to write cart: %w", err)
	}

	r.logger.Debug().Str("user_id", userID).Int("items", len(items)).Msg("cart written")
	return nil
}
