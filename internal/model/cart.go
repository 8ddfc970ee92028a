package model

import "time"

// GuestUserID is the owner sentinel stored on guest cart items.
const GuestUserID = "guest"

// CartItem represents one line item in a cart.
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Variant   string    `json:"variant,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartSummary holds the derived totals of a cart.
type CartSummary struct {
	ItemCount   int     `json:"itemCount"`
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Taxes       float64 `json:"taxes"`
	Total       float64 `json:"total"`
}

// AddCartItemRequest represents the request payload for adding to a cart.
type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant,omitempty"`
}

// UpdateCartItemRequest represents the request payload for changing a line quantity.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

// CartResponse is returned by every cart endpoint.
type CartResponse struct {
	Items   []CartItem  `json:"items"`
	Summary CartSummary `json:"summary"`
}
