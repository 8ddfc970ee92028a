package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bolpur-mart/internal/model"
)

// Engine applies cart operations to whichever store the session currently owns.
type Engine interface {
	Items(ctx context.Context, sess *model.Session) ([]model.CartItem, error)
	AddItem(ctx context.Context, sess *model.Session, productID string, quantity int, variant string) ([]model.CartItem, error)
	UpdateQuantity(ctx context.Context, sess *model.Session, itemID string, quantity int) ([]model.CartItem, error)
	RemoveItem(ctx context.Context, sess *model.Session, itemID string) ([]model.CartItem, error)
	Clear(ctx context.Context, sess *model.Session) error
	ClearUser(ctx context.Context, userID string) error
	MergeGuestCart(ctx context.Context, sess *model.Session) ([]model.CartItem, error)
}

type engine struct {
	guest    Store
	remote   Store
	claims   MergeClaimer
	logger   zerolog.Logger
	now      func() time.Time
	guestID  func(time.Time) string
	remoteID func() string
}

// NewEngine creates a cart engine over the guest and remote stores.
func NewEngine(guest, remote Store, claims MergeClaimer, logger zerolog.Logger) Engine {
	return &engine{
		guest:    guest,
		remote:   remote,
		claims:   claims,
		logger:   logger.With().Str("component", "cart_engine").Logger(),
		now:      time.Now,
		guestID:  NewGuestItemID,
		remoteID: NewRemoteItemID,
	}
}

// target picks the store, owner key and item owner for a session.
func (e *engine) target(sess *model.Session) (store Store, owner, itemOwner string, err error) {
	if sess.Authenticated() {
		return e.remote, sess.UserID, sess.UserID, nil
	}
	if sess == nil || sess.GuestID == "" {
		return nil, "", "", model.ErrSessionNotFound
	}
	return e.guest, sess.GuestID, model.GuestUserID, nil
}

func (e *engine) newID(sess *model.Session, now time.Time) string {
	if sess.Authenticated() {
		return e.remoteID()
	}
	return e.guestID(now)
}

func (e *engine) Items(ctx context.Context, sess *model.Session) ([]model.CartItem, error) {
	store, owner, _, err := e.target(sess)
	if err != nil {
		return nil, err
	}
	return store.Load(ctx, owner)
}

func (e *engine) AddItem(ctx context.Context, sess *model.Session, productID string, quantity int, variant string) ([]model.CartItem, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	store, owner, itemOwner, err := e.target(sess)
	if err != nil {
		return nil, err
	}

	key := LineItemKey(productID, variant)
	items, err := store.Update(ctx, owner, func(items []model.CartItem) ([]model.CartItem, error) {
		now := e.now()
		for i := range items {
			if LineItemKey(items[i].ProductID, items[i].Variant) == key {
				items[i].Quantity += quantity
				items[i].UpdatedAt = now
				return items, nil
			}
		}
		return append(items, model.CartItem{
			ID:        e.newID(sess, now),
			UserID:    itemOwner,
			ProductID: productID,
			Quantity:  quantity,
			Variant:   variant,
			CreatedAt: now,
			UpdatedAt: now,
		}), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}

	e.logger.Debug().
		Str("owner", owner).
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("Item added to cart")
	return items, nil
}

func (e *engine) UpdateQuantity(ctx context.Context, sess *model.Session, itemID string, quantity int) ([]model.CartItem, error) {
	if quantity < 0 {
		return nil, model.ErrNegativeQuantity
	}
	store, owner, _, err := e.target(sess)
	if err != nil {
		return nil, err
	}
	strict := sess.Authenticated()

	items, err := store.Update(ctx, owner, func(items []model.CartItem) ([]model.CartItem, error) {
		for i := range items {
			if items[i].ID != itemID {
				continue
			}
			if quantity == 0 {
				return append(items[:i], items[i+1:]...), nil
			}
			items[i].Quantity = quantity
			items[i].UpdatedAt = e.now()
			return items, nil
		}
		if strict {
			return nil, model.ErrCartItemNotFound
		}
		return items, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return items, nil
}

func (e *engine) RemoveItem(ctx context.Context, sess *model.Session, itemID string) ([]model.CartItem, error) {
	store, owner, _, err := e.target(sess)
	if err != nil {
		return nil, err
	}

	items, err := store.Update(ctx, owner, func(items []model.CartItem) ([]model.CartItem, error) {
		kept := items[:0]
		for _, item := range items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return items, nil
}

func (e *engine) Clear(ctx context.Context, sess *model.Session) error {
	store, owner, _, err := e.target(sess)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, owner); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (e *engine) ClearUser(ctx context.Context, userID string) error {
	if err := e.remote.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear user cart: %w", err)
	}
	return nil
}

// MergeGuestCart moves the session's guest cart into the user's remote cart.
// The guest cart is removed only after the merged list has been committed, and
// each session can merge once.
func (e *engine) MergeGuestCart(ctx context.Context, sess *model.Session) ([]model.CartItem, error) {
	if !sess.Authenticated() {
		return nil, model.ErrUnauthenticated
	}
	if sess.GuestID == "" {
		return e.remote.Load(ctx, sess.UserID)
	}

	claimed, err := e.claims.ClaimMerge(ctx, sess.GuestID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim guest cart merge: %w", err)
	}
	if !claimed {
		return nil, model.ErrGuestCartAlreadyMerged
	}

	items, err := e.mergeClaimed(ctx, sess)
	if err != nil {
		if relErr := e.claims.ReleaseMerge(ctx, sess.GuestID); relErr != nil {
			e.logger.Error().Err(relErr).Str("guest_id", sess.GuestID).Msg("Failed to release merge claim")
		}
		return nil, err
	}
	return items, nil
}

func (e *engine) mergeClaimed(ctx context.Context, sess *model.Session) ([]model.CartItem, error) {
	guestItems, err := e.guest.Load(ctx, sess.GuestID)
	if err != nil {
		return nil, fmt.Errorf("failed to read guest cart: %w", err)
	}
	if len(guestItems) == 0 {
		return e.remote.Load(ctx, sess.UserID)
	}

	merged, err := e.remote.Update(ctx, sess.UserID, func(existing []model.CartItem) ([]model.CartItem, error) {
		return Merge(existing, guestItems, sess.UserID, e.remoteID, e.now()), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write merged cart: %w", err)
	}

	// The merged list is committed; a failed delete leaves a stale guest cart
	// that the spent claim keeps from being merged again.
	if err := e.guest.Delete(ctx, sess.GuestID); err != nil {
		e.logger.Error().Err(err).Str("guest_id", sess.GuestID).Msg("Failed to delete guest cart after merge")
	}

	e.logger.Info().
		Str("user_id", sess.UserID).
		Str("guest_id", sess.GuestID).
		Int("guest_items", len(guestItems)).
		Int("merged_items", len(merged)).
		Msg("Guest cart merged")
	return merged, nil
}
