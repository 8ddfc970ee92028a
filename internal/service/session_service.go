package service

import (
	"context"
	"errors"

	"bolpur-mart/internal/cart"
	"bolpur-mart/internal/model"
	"bolpur-mart/internal/session"
	"bolpur-mart/internal/wishlist"

	"github.com/rs/zerolog"
)

// sessionService implements SessionService.
type sessionService struct {
	sessions  session.Manager
	carts     cart.Engine
	cartSvc   CartService
	wishlists wishlist.Service
	logger    zerolog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(
	sessions session.Manager,
	carts cart.Engine,
	cartSvc CartService,
	wishlists wishlist.Service,
	logger zerolog.Logger,
) SessionService {
	return &sessionService{
		sessions:  sessions,
		carts:     carts,
		cartSvc:   cartSvc,
		wishlists: wishlists,
		logger:    logger.With().Str("service", "session").Logger(),
	}
}

func (s *sessionService) Start(ctx context.Context) (*model.Session, error) {
	return s.sessions.Create(ctx)
}

func (s *sessionService) Resolve(ctx context.Context, guestID, userID string) (*model.Session, error) {
	if guestID == "" {
		if userID == "" {
			return nil, model.ErrSessionNotFound
		}
		return &model.Session{UserID: userID}, nil
	}

	sess, err := s.sessions.Get(ctx, guestID)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) && userID != "" {
			// An expired guest session does not lock a signed-in user out.
			return &model.Session{UserID: userID}, nil
		}
		return nil, err
	}

	if sess.UserID != "" && userID != "" && sess.UserID != userID {
		return nil, model.ErrForbidden
	}

	// Ownership follows the request's credentials, not the stored binding.
	sess.UserID = userID
	return sess, nil
}

func (s *sessionService) Merge(ctx context.Context, guestID, userID string) (*model.MergeResponse, error) {
	if userID == "" {
		return nil, model.ErrUnauthenticated
	}

	sess, err := s.sessions.Authenticate(ctx, guestID, userID)
	if err != nil {
		return nil, err
	}

	// The wishlist union is idempotent and runs before the cart merge spends
	// the session's one-time claim, so a failed request can be retried.
	saved, err := s.wishlists.MergeGuest(ctx, sess)
	if err != nil {
		s.logger.Error().Err(err).Str("guest_id", guestID).Msg("wishlist merge failed")
		return nil, err
	}

	items, err := s.carts.MergeGuestCart(ctx, sess)
	if err != nil {
		s.logger.Warn().Err(err).Str("guest_id", guestID).Str("user_id", userID).Msg("cart merge failed")
		return nil, err
	}

	resp, err := s.cartSvc.Respond(ctx, items)
	if err != nil {
		return nil, err
	}

	// Re-read so the response carries the merged flag and time.
	if fresh, err := s.sessions.Get(ctx, guestID); err == nil {
		fresh.UserID = userID
		sess = fresh
	}

	s.logger.Info().
		Str("guest_id", guestID).
		Str("user_id", userID).
		Int("cart_items", len(items)).
		Int("wishlist_items", len(saved)).
		Msg("guest session merged")

	return &model.MergeResponse{
		Session:  sess,
		Cart:     *resp,
		Wishlist: saved,
	}, nil
}

func (s *sessionService) End(ctx context.Context, guestID string) error {
	if guestID == "" {
		return model.ErrSessionNotFound
	}

	guest := &model.Session{GuestID: guestID}
	if err := s.carts.Clear(ctx, guest); err != nil {
		return err
	}
	if err := s.wishlists.Clear(ctx, guest); err != nil {
		return err
	}
	if err := s.sessions.Destroy(ctx, guestID); err != nil {
		return err
	}

	s.logger.Debug().Str("guest_id", guestID).Msg("session ended")
	return nil
}
