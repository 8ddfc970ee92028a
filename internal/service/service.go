package service

import (
	"context"

	"bolpur-mart/internal/model"
	"bolpur-mart/internal/timeslot"

	"github.com/google/uuid"
)

// CatalogService defines read access to the time-gated catalogue and the
// time rules that gate it.
type CatalogService interface {
	// Products returns the available products of the current time slot that match f.
	Products(ctx context.Context, f timeslot.Filter) ([]model.Product, error)

	// Product retrieves a single product by ID.
	Product(ctx context.Context, id string) (*model.Product, error)

	// Categories returns every category.
	Categories(ctx context.Context) ([]model.Category, error)

	// CategoriesForSlot returns the categories a slot allows.
	CategoriesForSlot(ctx context.Context, slotID string) ([]model.CategoryRef, error)

	// AvailableCategories returns the categories of the current slot.
	AvailableCategories(ctx context.Context) ([]model.CategoryRef, error)

	// CurrentSlot returns the active slot, or nil when none is active.
	CurrentSlot(ctx context.Context) (*model.CurrentSlot, error)

	// TimeRules returns the stored time rules.
	TimeRules(ctx context.Context) (model.TimeRulesConfig, error)

	// SaveTimeRules validates and stores the time rules.
	SaveTimeRules(ctx context.Context, config model.TimeRulesConfig) error
}

// CartService wraps the cart engine with product validation and pricing.
type CartService interface {
	Cart(ctx context.Context, sess *model.Session) (*model.CartResponse, error)
	AddItem(ctx context.Context, sess *model.Session, req *model.AddCartItemRequest) (*model.CartResponse, error)
	UpdateItem(ctx context.Context, sess *model.Session, itemID string, quantity int) (*model.CartResponse, error)
	RemoveItem(ctx context.Context, sess *model.Session, itemID string) (*model.CartResponse, error)
	Clear(ctx context.Context, sess *model.Session) (*model.CartResponse, error)
	ClearUser(ctx context.Context, userID string) error
	Summary(ctx context.Context, sess *model.Session) (*model.CartSummary, error)

	// Respond prices items into a CartResponse.
	Respond(ctx context.Context, items []model.CartItem) (*model.CartResponse, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// PlaceOrder turns the user's cart into an order and empties the cart.
	PlaceOrder(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error)

	// Order retrieves an order by its ID.
	Order(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// OrdersForUser lists the user's most recent orders.
	OrdersForUser(ctx context.Context, userID string, limit int) ([]model.Order, error)

	// UpdateStatus moves an order along its status machine.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// Cancel cancels one of the user's orders while it is still cancellable.
	Cancel(ctx context.Context, userID string, id uuid.UUID, reason string) (*model.Order, error)

	// UpdateVerification records the review outcome of a non-cash payment.
	UpdateVerification(ctx context.Context, id uuid.UUID, status model.VerificationStatus) (*model.Order, error)
}

// SessionService coordinates a visitor session with the cart and wishlist it owns.
type SessionService interface {
	// Start issues a new guest session.
	Start(ctx context.Context) (*model.Session, error)

	// Resolve builds the request session from the guest id and the
	// authenticated user id. Either may be empty, not both.
	Resolve(ctx context.Context, guestID, userID string) (*model.Session, error)

	// Merge binds the guest session to the user and moves its cart and wishlist over.
	Merge(ctx context.Context, guestID, userID string) (*model.MergeResponse, error)

	// End tears the guest session down along with its guest cart and wishlist.
	End(ctx context.Context, guestID string) error
}
