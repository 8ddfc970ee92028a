package service

import (
	"context"

	"bolpur-mart/internal/events"
	"bolpur-mart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Upsert(ctx context.Context, products []model.Product) error {
	return m.Called(ctx, products).Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Upsert(ctx context.Context, categories []model.Category) error {
	return m.Called(ctx, categories).Error(0)
}

// MockSettingsRepository is a mock implementation of SettingsRepository.
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, key string) (map[string]any, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSettingsRepository) Put(ctx context.Context, key string, value any) error {
	return m.Called(ctx, key, value).Error(0)
}

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Load(ctx context.Context, userID string) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartRepository) Update(ctx context.Context, userID string, fn func(items []model.CartItem) ([]model.CartItem, error)) ([]model.CartItem, error) {
	args := m.Called(ctx, userID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartRepository) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockCartRepository) LockTx(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartItem, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartRepository) DeleteTx(ctx context.Context, tx pgx.Tx, userID string) error {
	return m.Called(ctx, tx, userID).Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	return m.Called(ctx, tx, order).Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]model.Order, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

// Update runs fn against the order given to Return, mimicking the locked
// read-modify-write of the real repository.
func (m *MockOrderRepository) Update(ctx context.Context, id uuid.UUID, fn func(order *model.Order) error) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	order := *args.Get(0).(*model.Order)
	if err := fn(&order); err != nil {
		return nil, err
	}
	order.IsCancellable = order.Status.Cancellable()
	return &order, args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, evs ...events.Event) error {
	return m.Called(ctx, evs).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// MockEngine is a mock implementation of cart.Engine.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) items(args mock.Arguments) ([]model.CartItem, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockEngine) Items(ctx context.Context, sess *model.Session) ([]model.CartItem, error) {
	return m.items(m.Called(ctx, sess))
}

func (m *MockEngine) AddItem(ctx context.Context, sess *model.Session, productID string, quantity int, variant string) ([]model.CartItem, error) {
	return m.items(m.Called(ctx, sess, productID, quantity, variant))
}

func (m *MockEngine) UpdateQuantity(ctx context.Context, sess *model.Session, itemID string, quantity int) ([]model.CartItem, error) {
	return m.items(m.Called(ctx, sess, itemID, quantity))
}

func (m *MockEngine) RemoveItem(ctx context.Context, sess *model.Session, itemID string) ([]model.CartItem, error) {
	return m.items(m.Called(ctx, sess, itemID))
}

func (m *MockEngine) Clear(ctx context.Context, sess *model.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *MockEngine) ClearUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockEngine) MergeGuestCart(ctx context.Context, sess *model.Session) ([]model.CartItem, error) {
	return m.items(m.Called(ctx, sess))
}

// MockSessionManager is a mock implementation of session.Manager.
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) session(args mock.Arguments) (*model.Session, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionManager) Create(ctx context.Context) (*model.Session, error) {
	return m.session(m.Called(ctx))
}

func (m *MockSessionManager) Get(ctx context.Context, guestID string) (*model.Session, error) {
	return m.session(m.Called(ctx, guestID))
}

func (m *MockSessionManager) Authenticate(ctx context.Context, guestID, userID string) (*model.Session, error) {
	return m.session(m.Called(ctx, guestID, userID))
}

func (m *MockSessionManager) ClaimMerge(ctx context.Context, guestID string) (bool, error) {
	args := m.Called(ctx, guestID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionManager) ReleaseMerge(ctx context.Context, guestID string) error {
	return m.Called(ctx, guestID).Error(0)
}

func (m *MockSessionManager) Destroy(ctx context.Context, guestID string) error {
	return m.Called(ctx, guestID).Error(0)
}

// MockWishlistService is a mock implementation of wishlist.Service.
type MockWishlistService struct {
	mock.Mock
}

func (m *MockWishlistService) list(args mock.Arguments) ([]model.WishlistItem, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WishlistItem), args.Error(1)
}

func (m *MockWishlistService) List(ctx context.Context, sess *model.Session) ([]model.WishlistItem, error) {
	return m.list(m.Called(ctx, sess))
}

func (m *MockWishlistService) Add(ctx context.Context, sess *model.Session, productID string) ([]model.WishlistItem, error) {
	return m.list(m.Called(ctx, sess, productID))
}

func (m *MockWishlistService) Remove(ctx context.Context, sess *model.Session, productID string) ([]model.WishlistItem, error) {
	return m.list(m.Called(ctx, sess, productID))
}

func (m *MockWishlistService) Contains(ctx context.Context, sess *model.Session, productID string) (bool, error) {
	args := m.Called(ctx, sess, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlistService) Clear(ctx context.Context, sess *model.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *MockWishlistService) MergeGuest(ctx context.Context, sess *model.Session) ([]model.WishlistItem, error) {
	return m.list(m.Called(ctx, sess))
}
