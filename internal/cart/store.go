package cart

import (
	"context"

	"bolpur-mart/internal/model"
)

// MutateFunc receives the current item list and returns the list to persist.
// Returning an error aborts the write.
type MutateFunc = func(items []model.CartItem) ([]model.CartItem, error)

// Store persists one cart per owner id.
type Store interface {
	// Load returns the owner's items, or an empty list when none are stored.
	Load(ctx context.Context, owner string) ([]model.CartItem, error)
	// Update applies fn to the owner's items and persists the result atomically
	// with respect to other writers of the same owner.
	Update(ctx context.Context, owner string, fn MutateFunc) ([]model.CartItem, error)
	// Delete removes the owner's cart. Deleting a missing cart is not an error.
	Delete(ctx context.Context, owner string) error
}

// MergeClaimer grants the one-time right to merge a guest session's cart.
type MergeClaimer interface {
	ClaimMerge(ctx context.Context, guestID string) (bool, error)
	ReleaseMerge(ctx context.Context, guestID string) error
}
