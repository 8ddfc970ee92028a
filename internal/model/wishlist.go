package model

import "time"

// WishlistItem represents a product saved by a user.
type WishlistItem struct {
	UserID    string    `json:"userId" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// WishlistRequest represents the request payload for adding to a wishlist.
type WishlistRequest struct {
	ProductID string `json:"productId"`
}
