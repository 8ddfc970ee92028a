package handler

import (
	"context"

	"bolpur-mart/internal/model"
	"bolpur-mart/internal/timeslot"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Products(ctx context.Context, f timeslot.Filter) ([]model.Product, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) Product(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogService) CategoriesForSlot(ctx context.Context, slotID string) ([]model.CategoryRef, error) {
	args := m.Called(ctx, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryRef), args.Error(1)
}

func (m *MockCatalogService) AvailableCategories(ctx context.Context) ([]model.CategoryRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryRef), args.Error(1)
}

func (m *MockCatalogService) CurrentSlot(ctx context.Context) (*model.CurrentSlot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CurrentSlot), args.Error(1)
}

func (m *MockCatalogService) TimeRules(ctx context.Context) (model.TimeRulesConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.TimeRulesConfig), args.Error(1)
}

func (m *MockCatalogService) SaveTimeRules(ctx context.Context, config model.TimeRulesConfig) error {
	return m.Called(ctx, config).Error(0)
}

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func cartResult(args mock.Arguments) (*model.CartResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartResponse), args.Error(1)
}

func (m *MockCartService) Cart(ctx context.Context, sess *model.Session) (*model.CartResponse, error) {
	return cartResult(m.Called(ctx, sess))
}

func (m *MockCartService) AddItem(ctx context.Context, sess *model.Session, req *model.AddCartItemRequest) (*model.CartResponse, error) {
	return cartResult(m.Called(ctx, sess, req))
}

func (m *MockCartService) UpdateItem(ctx context.Context, sess *model.Session, itemID string, quantity int) (*model.CartResponse, error) {
	return cartResult(m.Called(ctx, sess, itemID, quantity))
}

func (m *MockCartService) RemoveItem(ctx context.Context, sess *model.Session, itemID string) (*model.CartResponse, error) {
	return cartResult(m.Called(ctx, sess, itemID))
}

func (m *MockCartService) Clear(ctx context.Context, sess *model.Session) (*model.CartResponse, error) {
	return cartResult(m.Called(ctx, sess))
}

func (m *MockCartService) ClearUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockCartService) Summary(ctx context.Context, sess *model.Session) (*model.CartSummary, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartSummary), args.Error(1)
}

func (m *MockCartService) Respond(ctx context.Context, items []model.CartItem) (*model.CartResponse, error) {
	return cartResult(m.Called(ctx, items))
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func orderResult(args mock.Arguments) (*model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error) {
	return orderResult(m.Called(ctx, userID, req))
}

func (m *MockOrderService) Order(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return orderResult(m.Called(ctx, id))
}

func (m *MockOrderService) OrdersForUser(ctx context.Context, userID string, limit int) ([]model.Order, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	return orderResult(m.Called(ctx, id, status))
}

func (m *MockOrderService) Cancel(ctx context.Context, userID string, id uuid.UUID, reason string) (*model.Order, error) {
	return orderResult(m.Called(ctx, userID, id, reason))
}

func (m *MockOrderService) UpdateVerification(ctx context.Context, id uuid.UUID, status model.VerificationStatus) (*model.Order, error) {
	return orderResult(m.Called(ctx, id, status))
}

// MockSessionService is a mock implementation of service.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Start(ctx context.Context) (*model.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionService) Resolve(ctx context.Context, guestID, userID string) (*model.Session, error) {
	args := m.Called(ctx, guestID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionService) Merge(ctx context.Context, guestID, userID string) (*model.MergeResponse, error) {
	args := m.Called(ctx, guestID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MergeResponse), args.Error(1)
}

func (m *MockSessionService) End(ctx context.Context, guestID string) error {
	return m.Called(ctx, guestID).Error(0)
}

// MockWishlistService is a mock implementation of wishlist.Service.
type MockWishlistService struct {
	mock.Mock
}

func wishlistResult(args mock.Arguments) ([]model.WishlistItem, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WishlistItem), args.Error(1)
}

func (m *MockWishlistService) List(ctx context.Context, sess *model.Session) ([]model.WishlistItem, error) {
	return wishlistResult(m.Called(ctx, sess))
}

func (m *MockWishlistService) Add(ctx context.Context, sess *model.Session, productID string) ([]model.WishlistItem, error) {
	return wishlistResult(m.Called(ctx, sess, productID))
}

func (m *MockWishlistService) Remove(ctx context.Context, sess *model.Session, productID string) ([]model.WishlistItem, error) {
	return wishlistResult(m.Called(ctx, sess, productID))
}

func (m *MockWishlistService) Contains(ctx context.Context, sess *model.Session, productID string) (bool, error) {
	args := m.Called(ctx, sess, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlistService) Clear(ctx context.Context, sess *model.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *MockWishlistService) MergeGuest(ctx context.Context, sess *model.Session) ([]model.WishlistItem, error) {
	return wishlistResult(m.Called(ctx, sess))
}
