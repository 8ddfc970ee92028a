// Package wishlist keeps the set of products a visitor saved for later.
package wishlist

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"bolpur-mart/internal/model"
)

// Store persists one wishlist per owner. Adding a product twice keeps the
// first entry.
type Store interface {
	List(ctx context.Context, owner string) ([]model.WishlistItem, error)
	Add(ctx context.Context, owner string, productIDs ...string) error
	Remove(ctx context.Context, owner, productID string) error
	Contains(ctx context.Context, owner, productID string) (bool, error)
	Clear(ctx context.Context, owner string) error
}

// Service applies wishlist operations to the store the session owns.
type Service interface {
	List(ctx context.Context, sess *model.Session) ([]model.WishlistItem, error)
	Add(ctx context.Context, sess *model.Session, productID string) ([]model.WishlistItem, error)
	Remove(ctx context.Context, sess *model.Session, productID string) ([]model.WishlistItem, error)
	Contains(ctx context.Context, sess *model.Session, productID string) (bool, error)
	Clear(ctx context.Context, sess *model.Session) error
	MergeGuest(ctx context.Context, sess *model.Session) ([]model.WishlistItem, error)
}

type service struct {
	guest  Store
	user   Store
	logger zerolog.Logger
}

// NewService creates a wishlist service over the guest and user stores.
func NewService(guest, user Store, logger zerolog.Logger) Service {
	return &service{
		guest:  guest,
		user:   user,
		logger: logger.With().Str("service", "wishlist").Logger(),
	}
}

func (s *service) target(sess *model.Session) (Store, string, error) {
	if sess.Authenticated() {
		return s.user, sess.UserID, nil
	}
	if sess == nil || sess.GuestID == "" {
		return nil, "", model.ErrSessionNotFound
	}
	return s.guest, sess.GuestID, nil
}

func (s *service) List(ctx context.Context, sess *model.Session) ([]model.WishlistItem, error) {
	store, owner, err := s.target(sess)
	if err != nil {
		return nil, err
	}
	return store.List(ctx, owner)
}

func (s *service) Add(ctx context.Context, sess *model.Session, productID string) ([]model.WishlistItem, error) {
	if productID == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "productId is required")
	}
	store, owner, err := s.target(sess)
	if err != nil {
		return nil, err
	}
	if err := store.Add(ctx, owner, productID); err != nil {
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return store.List(ctx, owner)
}

func (s *service) Remove(ctx context.Context, sess *model.Session, productID string) ([]model.WishlistItem, error) {
	store, owner, err := s.target(sess)
	if err != nil {
		return nil, err
	}
	if err := store.Remove(ctx, owner, productID); err != nil {
		return nil, fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return store.List(ctx, owner)
}

func (s *service) Contains(ctx context.Context, sess *model.Session, productID string) (bool, error) {
	store, owner, err := s.target(sess)
	if err != nil {
		return false, err
	}
	return store.Contains(ctx, owner, productID)
}

func (s *service) Clear(ctx context.Context, sess *model.Session) error {
	store, owner, err := s.target(sess)
	if err != nil {
		return err
	}
	return store.Clear(ctx, owner)
}

// MergeGuest adds the guest wishlist to the user's and then drops the guest copy.
func (s *service) MergeGuest(ctx context.Context, sess *model.Session) ([]model.WishlistItem, error) {
	if !sess.Authenticated() {
		return nil, model.ErrUnauthenticated
	}
	if sess.GuestID != "" {
		guestItems, err := s.guest.List(ctx, sess.GuestID)
		if err != nil {
			return nil, fmt.Errorf("failed to read guest wishlist: %w", err)
		}
		if len(guestItems) > 0 {
			ids := make([]string, len(guestItems))
			for i, item := range guestItems {
				ids[i] = item.ProductID
			}
			if err := s.user.Add(ctx, sess.UserID, ids...); err != nil {
				return nil, fmt.Errorf("failed to merge wishlist: %w", err)
			}
			if err := s.guest.Clear(ctx, sess.GuestID); err != nil {
				s.logger.Error().Err(err).Str("guest_id", sess.GuestID).Msg("Failed to clear guest wishlist after merge")
			}
		}
	}
	return s.user.List(ctx, sess.UserID)
}
