package cart

import (
	"time"

	"bolpur-mart/internal/model"
)

// Merge folds guest into existing and returns the combined list owned by userID.
//
// Existing items seed the result so they keep their position; a guest item
// whose key is already present adds its quantity, otherwise it is appended.
// Every returned item gets a fresh id from newID. Merge has no memory of
// earlier merges: folding the same guest list in twice counts it twice.
func Merge(existing, guest []model.CartItem, userID string, newID func() string, now time.Time) []model.CartItem {
	order := make([]string, 0, len(existing)+len(guest))
	byKey := make(map[string]model.CartItem, len(existing)+len(guest))

	fold := func(item model.CartItem) {
		key := LineItemKey(item.ProductID, item.Variant)
		if current, ok := byKey[key]; ok {
			current.Quantity += item.Quantity
			current.UpdatedAt = now
			byKey[key] = current
			return
		}
		order = append(order, key)
		byKey[key] = item
	}

	for _, item := range existing {
		fold(item)
	}
	for _, item := range guest {
		fold(item)
	}

	merged := make([]model.CartItem, 0, len(order))
	for _, key := range order {
		item := byKey[key]
		item.ID = newID()
		item.UserID = userID
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		if item.UpdatedAt.IsZero() {
			item.UpdatedAt = now
		}
		merged = append(merged, item)
	}
	return merged
}
