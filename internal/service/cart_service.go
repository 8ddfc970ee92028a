package service

import (
	"context"
	"fmt"

	"bolpur-mart/internal/cart"
	"bolpur-mart/internal/model"
	"bolpur-mart/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	engine      cart.Engine
	productRepo repository.ProductRepository
	pricing     cart.Pricing
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(engine cart.Engine, productRepo repository.ProductRepository, pricing cart.Pricing, logger zerolog.Logger) CartService {
	return &cartService{
		engine:      engine,
		productRepo: productRepo,
		pricing:     pricing,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// productsFor loads the products referenced by items keyed by id.
func (s *cartService) productsFor(ctx context.Context, items []model.CartItem) (map[string]model.Product, error) {
	if len(items) == 0 {
		return map[string]model.Product{}, nil
	}

	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to get cart products")
		return nil, fmt.Errorf("failed to get cart products: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *cartService) Respond(ctx context.Context, items []model.CartItem) (*model.CartResponse, error) {
	if items == nil {
		items = []model.CartItem{}
	}
	products, err := s.productsFor(ctx, items)
	if err != nil {
		return nil, err
	}
	return &model.CartResponse{
		Items:   items,
		Summary: cart.Summarize(items, products, s.pricing),
	}, nil
}

func (s *cartService) Cart(ctx context.Context, sess *model.Session) (*model.CartResponse, error) {
	items, err := s.engine.Items(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s.Respond(ctx, items)
}

func (s *cartService) AddItem(ctx context.Context, sess *model.Session, req *model.AddCartItemRequest) (*model.CartResponse, error) {
	if req == nil || req.ProductID == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "productId is required")
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	if !product.Available {
		return nil, model.ErrProductUnavailable
	}

	items, err := s.engine.AddItem(ctx, sess, req.ProductID, req.Quantity, req.Variant)
	if err != nil {
		return nil, err
	}
	return s.Respond(ctx, items)
}

func (s *cartService) UpdateItem(ctx context.Context, sess *model.Session, itemID string, quantity int) (*model.CartResponse, error) {
	items, err := s.engine.UpdateQuantity(ctx, sess, itemID, quantity)
	if err != nil {
		return nil, err
	}
	return s.Respond(ctx, items)
}

func (s *cartService) RemoveItem(ctx context.Context, sess *model.Session, itemID string) (*model.CartResponse, error) {
	items, err := s.engine.RemoveItem(ctx, sess, itemID)
	if err != nil {
		return nil, err
	}
	return s.Respond(ctx, items)
}

func (s *cartService) Clear(ctx context.Context, sess *model.Session) (*model.CartResponse, error) {
	if err := s.engine.Clear(ctx, sess); err != nil {
		return nil, err
	}
	return s.Respond(ctx, nil)
}

func (s *cartService) ClearUser(ctx context.Context, userID string) error {
	if userID == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "userId is required")
	}
	if err := s.engine.ClearUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("user cart cleared")
	return nil
}

func (s *cartService) Summary(ctx context.Context, sess *model.Session) (*model.CartSummary, error) {
	resp, err := s.Cart(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &resp.Summary, nil
}
