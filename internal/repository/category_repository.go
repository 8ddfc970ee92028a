package repository

import (
	"context"
	"fmt"

	"bolpur-mart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, is_active, sort_order, created_at, updated_at
		FROM categories
		ORDER BY sort_order, name
	`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Category, error) {
		var c model.Category
		err := row.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan categories")
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) Upsert(ctx context.Context, categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(`
			INSERT INTO categories (id, name, description, is_active, sort_order, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				is_active = EXCLUDED.is_active,
				sort_order = EXCLUDED.sort_order,
				updated_at = NOW()
		`, c.ID, c.Name, c.Description, c.IsActive, c.SortOrder)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range categories {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Str("category_id", categories[i].ID).Msg("failed to upsert category")
			return fmt.Errorf("failed to upsert category %s: %w", categories[i].ID, err)
		}
	}
	return nil
}
