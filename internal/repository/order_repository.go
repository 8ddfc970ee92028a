package repository

import (
	"context"
	"fmt"

	"bolpur-mart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, order_number, customer_id, customer_name, customer_phone, customer_email,
	delivery_address, items, subtotal, delivery_fee, taxes, discount, total, status, payment_status,
	payment_method, payment_details, delivery_slot, notes, special_instructions, tracking, cancel_reason,
	created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
		&o.DeliveryAddress, &o.Items, &o.Subtotal, &o.DeliveryFee, &o.Taxes, &o.Discount, &o.Total,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.PaymentDetails, &o.DeliverySlot, &o.Notes,
		&o.SpecialInstructions, &o.Tracking, &o.CancelReason, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}
	o.IsCancellable = o.Status.Cancellable()
	return &o, nil
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.OrderNumber, order.CustomerID, order.CustomerName, order.CustomerPhone, order.CustomerEmail,
		order.DeliveryAddress, order.Items, order.Subtotal, order.DeliveryFee, order.Taxes, order.Discount, order.Total,
		order.Status, order.PaymentStatus, order.PaymentMethod, order.PaymentDetails, order.DeliverySlot, order.Notes,
		order.SpecialInstructions, order.Tracking, order.CancelReason, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order created successfully")

	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return order, nil
}

// ListByCustomer returns the customer's most recent orders first.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// Update locks the order row, applies fn and persists the mutable fields.
func (r *orderRepository) Update(ctx context.Context, id uuid.UUID, fn func(order *model.Order) error) (*model.Order, error) {
	var updated *model.Order

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		order, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if isNoRows(err) {
				return nil
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		if err := fn(order); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE orders
			SET status = $2, payment_status = $3, payment_details = $4, tracking = $5,
				cancel_reason = $6, updated_at = $7
			WHERE id = $1
		`, order.ID, order.Status, order.PaymentStatus, order.PaymentDetails, order.Tracking,
			order.CancelReason, order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		order.IsCancellable = order.Status.Cancellable()
		updated = order
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order")
		return nil, err
	}

	return updated, nil
}
