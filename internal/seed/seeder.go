package seed

import (
	"context"
	"fmt"

	"bolpur-mart/internal/model"
	"bolpur-mart/internal/repository"
	"bolpur-mart/internal/timeslot"

	"github.com/rs/zerolog"
)

// DefaultBatchSize is the number of products written per round trip.
const DefaultBatchSize = 200

// Progress is told how many products were written by each batch.
type Progress func(written int)

// Seeder writes a catalogue into the repositories.
type Seeder struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	settings   repository.SettingsRepository
	batchSize  int
	logger     zerolog.Logger
}

// NewSeeder creates a seeder.
func NewSeeder(categories repository.CategoryRepository, products repository.ProductRepository, settings repository.SettingsRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{
		categories: categories,
		products:   products,
		settings:   settings,
		batchSize:  DefaultBatchSize,
		logger:     logger.With().Str("component", "seeder").Logger(),
	}
}

// Seed validates c and upserts its categories, products and time rules.
// Time rules are only written when the catalogue carries some.
func (s *Seeder) Seed(ctx context.Context, c *Catalog, progress Progress) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if len(c.Categories) > 0 {
		if err := s.categories.Upsert(ctx, c.Categories); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}

	for start := 0; start < len(c.Products); start += s.batchSize {
		end := min(start+s.batchSize, len(c.Products))
		if err := s.products.Upsert(ctx, c.Products[start:end]); err != nil {
			return fmt.Errorf("failed to seed products %d-%d: %w", start, end, err)
		}
		if progress != nil {
			progress(end - start)
		}
	}

	if len(c.TimeRules) > 0 {
		doc, err := timeslot.EncodeConfig(c.TimeRules)
		if err != nil {
			return fmt.Errorf("failed to encode time rules: %w", err)
		}
		if err := s.settings.Put(ctx, model.TimeRulesSettingKey, doc); err != nil {
			return fmt.Errorf("failed to seed time rules: %w", err)
		}
	}

	s.logger.Info().
		Int("categories", len(c.Categories)).
		Int("products", len(c.Products)).
		Int("time_slots", len(c.TimeRules)).
		Msg("catalog seeded")
	return nil
}
