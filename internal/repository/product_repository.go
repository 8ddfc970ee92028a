package repository

import (
	"context"
	"fmt"

	"bolpur-mart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, categories, price, discounted_price, discount_percentage,
	has_discount, stock, tags, available, image_url, average_rating, total_ratings, created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Categories, &p.Price, &p.DiscountedPrice, &p.DiscountPercentage,
		&p.HasDiscount, &p.Stock, &p.Tags, &p.Available, &p.ImageURL, &p.AverageRating, &p.TotalRatings,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetAll retrieves every product ordered by name.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, id`)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves the products that exist among ids.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY name, id`, ids)
}

// Upsert inserts or replaces products in one batch.
func (r *productRepository) Upsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (id, name, description, categories, price, discounted_price, discount_percentage,
			has_discount, stock, tags, available, image_url, average_rating, total_ratings, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			categories = EXCLUDED.categories,
			price = EXCLUDED.price,
			discounted_price = EXCLUDED.discounted_price,
			discount_percentage = EXCLUDED.discount_percentage,
			has_discount = EXCLUDED.has_discount,
			stock = EXCLUDED.stock,
			tags = EXCLUDED.tags,
			available = EXCLUDED.available,
			image_url = EXCLUDED.image_url,
			average_rating = EXCLUDED.average_rating,
			total_ratings = EXCLUDED.total_ratings,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		categories := p.Categories
		if categories == nil {
			categories = []model.CategoryRef{}
		}
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		batch.Queue(query,
			p.ID, p.Name, p.Description, categories, p.Price, p.DiscountedPrice, p.DiscountPercentage,
			p.HasDiscount, p.Stock, tags, p.Available, p.ImageURL, p.AverageRating, p.TotalRatings,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range products {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Str("product_id", products[i].ID).Msg("failed to upsert product")
			return fmt.Errorf("failed to upsert product %s: %w", products[i].ID, err)
		}
	}

	r.logger.Debug().Int("count", len(products)).Msg("products upserted")
	return nil
}
