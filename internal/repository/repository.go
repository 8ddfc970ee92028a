package repository

import (
	"context"

	"bolpur-mart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves every product ordered by name.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. It returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves the products that exist among ids.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Upsert inserts or replaces products in one batch.
	Upsert(ctx context.Context, products []model.Product) error
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// GetAll retrieves every category ordered by sort order then name.
	GetAll(ctx context.Context) ([]model.Category, error)

	// Upsert inserts or replaces categories in one batch.
	Upsert(ctx context.Context, categories []model.Category) error
}

// SettingsRepository stores named JSON documents.
type SettingsRepository interface {
	// Get returns the document stored under key, or nil when absent.
	Get(ctx context.Context, key string) (map[string]any, error)

	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, value any) error
}

// CartRepository stores one cart document per user. Load, Update and Delete
// make it usable as the remote cart store.
type CartRepository interface {
	Load(ctx context.Context, userID string) ([]model.CartItem, error)

	// Update runs fn on the user's items while holding the cart row lock.
	Update(ctx context.Context, userID string, fn func(items []model.CartItem) ([]model.CartItem, error)) ([]model.CartItem, error)

	Delete(ctx context.Context, userID string) error

	// LockTx reads the user's items inside tx and holds the row lock until tx ends.
	LockTx(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartItem, error)

	// DeleteTx removes the user's cart inside tx.
	DeleteTx(ctx context.Context, tx pgx.Tx, userID string) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order by its ID. It returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByCustomer returns the customer's most recent orders first.
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]model.Order, error)

	// Update locks the order, applies fn and writes the result back.
	// It returns nil when the order does not exist.
	Update(ctx context.Context, id uuid.UUID, fn func(order *model.Order) error) (*model.Order, error)
}

// WishlistRepository stores saved products per user.
type WishlistRepository interface {
	List(ctx context.Context, userID string) ([]model.WishlistItem, error)
	Add(ctx context.Context, userID string, productIDs ...string) error
	Remove(ctx context.Context, userID, productID string) error
	Contains(ctx context.Context, userID, productID string) (bool, error)
	Clear(ctx context.Context, userID string) error
}
