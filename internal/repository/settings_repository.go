package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type settingsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSettingsRepository creates a new PostgreSQL-backed settings repository.
func NewSettingsRepository(pool *pgxpool.Pool, logger zerolog.Logger) SettingsRepository {
	return &settingsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "settings").Logger(),
	}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (map[string]any, error) {
	var value map[string]any
	err := r.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if isNoRows(err) {
			r.logger.Debug().Str("key", key).Msg("setting not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("key", key).Msg("failed to query setting")
		return nil, fmt.Errorf("failed to query setting %s: %w", key, err)
	}
	return value, nil
}

func (r *settingsRepository) Put(ctx context.Context, key string, value any) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to store setting")
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}
