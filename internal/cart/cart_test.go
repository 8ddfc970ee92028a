package cart

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"bolpur-mart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store.
type memStore struct {
	mu    sync.Mutex
	carts map[string][]model.CartItem
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string][]model.CartItem)}
}

func (s *memStore) Load(_ context.Context, owner string) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CartItem{}, s.carts[owner]...), nil
}

func (s *memStore) Update(_ context.Context, owner string, fn MutateFunc) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(append([]model.CartItem{}, s.carts[owner]...))
	if err != nil {
		return nil, err
	}
	if len(next) == 0 {
		delete(s.carts, owner)
		return []model.CartItem{}, nil
	}
	s.carts[owner] = append([]model.CartItem{}, next...)
	return next, nil
}

// seedStore overwrites owner's items through Update.
func seedStore(t *testing.T, s Store, owner string, items []model.CartItem) {
	t.Helper()
	_, err := s.Update(context.Background(), owner, func([]model.CartItem) ([]model.CartItem, error) {
		return items, nil
	})
	require.NoError(t, err)
}

func (s *memStore) Delete(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, owner)
	return nil
}

type memClaims struct {
	mu      sync.Mutex
	claimed map[string]bool
}

func (c *memClaims) ClaimMerge(_ context.Context, guestID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.claimed == nil {
		c.claimed = make(map[string]bool)
	}
	if c.claimed[guestID] {
		return false, nil
	}
	c.claimed[guestID] = true
	return true, nil
}

func (c *memClaims) ReleaseMerge(_ context.Context, guestID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.claimed, guestID)
	return nil
}

type fixture struct {
	engine *engine
	guest  *memStore
	remote *memStore
	claims *memClaims
}

func newFixture() *fixture {
	guest, remote, claims := newMemStore(), newMemStore(), &memClaims{}
	e := NewEngine(guest, remote, claims, zerolog.Nop()).(*engine)

	clock := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	seq := 0
	e.remoteID = func() string {
		seq++
		return fmt.Sprintf("r%d", seq)
	}
	return &fixture{engine: e, guest: guest, remote: remote, claims: claims}
}

func guestSession() *model.Session {
	return &model.Session{GuestID: "g1"}
}

func userSession() *model.Session {
	return &model.Session{GuestID: "g1", UserID: "u1"}
}

func TestLineItemKey(t *testing.T) {
	assert.Equal(t, LineItemKey("p1", ""), LineItemKey("p1", ""))
	assert.NotEqual(t, LineItemKey("p1", ""), LineItemKey("p1", "large"))
	assert.NotEqual(t, LineItemKey("a-b", ""), LineItemKey("a", "b"))
}

func TestNewGuestItemID(t *testing.T) {
	now := time.UnixMilli(1715331600123)
	id := NewGuestItemID(now)
	assert.Regexp(t, regexp.MustCompile(`^guest-1715331600123-[0-9a-z]{9}$`), id)
	assert.NotEqual(t, id, NewGuestItemID(now))
}

func TestEngine_AddItem(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		session *model.Session
		adds    []model.AddCartItemRequest
		want    []model.CartItem
		wantErr error
	}{
		{
			name:    "same product and variant accumulate",
			session: guestSession(),
			adds: []model.AddCartItemRequest{
				{ProductID: "A", Quantity: 2},
				{ProductID: "A", Quantity: 3},
			},
			want: []model.CartItem{{ProductID: "A", Quantity: 5, UserID: model.GuestUserID}},
		},
		{
			name:    "distinct variant is a separate line",
			session: guestSession(),
			adds: []model.AddCartItemRequest{
				{ProductID: "A", Quantity: 2},
				{ProductID: "A", Quantity: 1, Variant: "large"},
			},
			want: []model.CartItem{
				{ProductID: "A", Quantity: 2, UserID: model.GuestUserID},
				{ProductID: "A", Quantity: 1, Variant: "large", UserID: model.GuestUserID},
			},
		},
		{
			name:    "authenticated session writes the user cart",
			session: userSession(),
			adds:    []model.AddCartItemRequest{{ProductID: "B", Quantity: 1}},
			want:    []model.CartItem{{ProductID: "B", Quantity: 1, UserID: "u1"}},
		},
		{
			name:    "zero quantity rejected",
			session: guestSession(),
			adds:    []model.AddCartItemRequest{{ProductID: "A", Quantity: 0}},
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name:    "negative quantity rejected",
			session: guestSession(),
			adds:    []model.AddCartItemRequest{{ProductID: "A", Quantity: -1}},
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name:    "missing session",
			session: &model.Session{},
			adds:    []model.AddCartItemRequest{{ProductID: "A", Quantity: 1}},
			wantErr: model.ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			var got []model.CartItem
			var err error
			for _, add := range tt.adds {
				got, err = f.engine.AddItem(ctx, tt.session, add.ProductID, add.Quantity, add.Variant)
				if err != nil {
					break
				}
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.ProductID, got[i].ProductID)
				assert.Equal(t, want.Variant, got[i].Variant)
				assert.Equal(t, want.Quantity, got[i].Quantity)
				assert.Equal(t, want.UserID, got[i].UserID)
				assert.NotEmpty(t, got[i].ID)
			}
		})
	}
}

func TestEngine_AddItem_RefreshesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.engine.AddItem(ctx, guestSession(), "A", 1, "")
	require.NoError(t, err)
	second, err := f.engine.AddItem(ctx, guestSession(), "A", 1, "")
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].CreatedAt, second[0].CreatedAt)
	assert.True(t, second[0].UpdatedAt.After(first[0].UpdatedAt))
}

func TestEngine_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		session  *model.Session
		itemID   func(items []model.CartItem) string
		quantity int
		wantQty  []int
		wantErr  error
	}{
		{
			name:     "sets quantity",
			session:  guestSession(),
			itemID:   func(items []model.CartItem) string { return items[0].ID },
			quantity: 7,
			wantQty:  []int{7, 1},
		},
		{
			name:     "zero removes the line",
			session:  guestSession(),
			itemID:   func(items []model.CartItem) string { return items[0].ID },
			quantity: 0,
			wantQty:  []int{1},
		},
		{
			name:     "negative rejected",
			session:  guestSession(),
			itemID:   func(items []model.CartItem) string { return items[0].ID },
			quantity: -2,
			wantErr:  model.ErrNegativeQuantity,
		},
		{
			name:     "unknown id is a no-op for guests",
			session:  guestSession(),
			itemID:   func([]model.CartItem) string { return "missing" },
			quantity: 4,
			wantQty:  []int{2, 1},
		},
		{
			name:     "unknown id is not found for users",
			session:  userSession(),
			itemID:   func([]model.CartItem) string { return "missing" },
			quantity: 4,
			wantErr:  model.ErrCartItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.engine.AddItem(ctx, tt.session, "A", 2, "")
			require.NoError(t, err)
			items, err := f.engine.AddItem(ctx, tt.session, "B", 1, "")
			require.NoError(t, err)

			got, err := f.engine.UpdateQuantity(ctx, tt.session, tt.itemID(items), tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			quantities := make([]int, len(got))
			for i, item := range got {
				quantities[i] = item.Quantity
			}
			assert.Equal(t, tt.wantQty, quantities)
		})
	}
}

func TestEngine_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	sess := guestSession()

	items, err := f.engine.AddItem(ctx, sess, "A", 1, "")
	require.NoError(t, err)
	_, err = f.engine.AddItem(ctx, sess, "B", 1, "")
	require.NoError(t, err)

	got, err := f.engine.RemoveItem(ctx, sess, items[0].ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ProductID)

	got, err = f.engine.RemoveItem(ctx, sess, items[0].ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, f.engine.Clear(ctx, sess))
	require.NoError(t, f.engine.Clear(ctx, sess))

	got, err = f.engine.Items(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEngine_MergeGuestCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.engine.AddItem(ctx, guestSession(), "A", 2, "")
	require.NoError(t, err)
	_, err = f.engine.AddItem(ctx, guestSession(), "C", 4, "")
	require.NoError(t, err)
	seedStore(t, f.remote, "u1", []model.CartItem{
		{ID: "old", UserID: "u1", ProductID: "A", Quantity: 1},
		{ID: "old2", UserID: "u1", ProductID: "B", Quantity: 1},
	})

	merged, err := f.engine.MergeGuestCart(ctx, userSession())
	require.NoError(t, err)

	require.Len(t, merged, 3)
	assert.Equal(t, "A", merged[0].ProductID)
	assert.Equal(t, 3, merged[0].Quantity)
	assert.Equal(t, "B", merged[1].ProductID)
	assert.Equal(t, "C", merged[2].ProductID)
	assert.Equal(t, 4, merged[2].Quantity)
	for _, item := range merged {
		assert.Equal(t, "u1", item.UserID)
		assert.NotEqual(t, "old", item.ID)
	}

	guestLeft, err := f.guest.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, guestLeft)

	stored, err := f.remote.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, merged, stored)
}

func TestEngine_MergeGuestCart_OncePerSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.engine.AddItem(ctx, guestSession(), "A", 2, "")
	require.NoError(t, err)

	_, err = f.engine.MergeGuestCart(ctx, userSession())
	require.NoError(t, err)

	// a stale guest cart reappearing must not be merged twice
	seedStore(t, f.guest, "g1", []model.CartItem{{ID: "x", ProductID: "A", Quantity: 2}})
	_, err = f.engine.MergeGuestCart(ctx, userSession())
	assert.ErrorIs(t, err, model.ErrGuestCartAlreadyMerged)

	stored, err := f.remote.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 2, stored[0].Quantity)
}

func TestEngine_MergeGuestCart_RequiresUser(t *testing.T) {
	f := newFixture()
	_, err := f.engine.MergeGuestCart(context.Background(), guestSession())
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestEngine_MergeGuestCart_EmptyGuest(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedStore(t, f.remote, "u1", []model.CartItem{{ID: "r", UserID: "u1", ProductID: "A", Quantity: 1}})

	merged, err := f.engine.MergeGuestCart(ctx, userSession())
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "r", merged[0].ID)
}

func TestMerge(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	seq := 0
	newID := func() string {
		seq++
		return fmt.Sprintf("id%d", seq)
	}

	existing := []model.CartItem{{ProductID: "A", Quantity: 3}}
	guest := []model.CartItem{{ProductID: "A", Quantity: 2}, {ProductID: "A", Variant: "large", Quantity: 1}}

	once := Merge(existing, guest, "u1", newID, now)
	require.Len(t, once, 2)
	assert.Equal(t, 5, once[0].Quantity)
	assert.Equal(t, "large", once[1].Variant)
	assert.Equal(t, "u1", once[1].UserID)
	assert.Equal(t, now, once[1].CreatedAt)

	twice := Merge(once, guest, "u1", newID, now)
	require.Len(t, twice, 2)
	assert.Equal(t, 7, twice[0].Quantity, "the pure merge has no memory of earlier merges")
	assert.Equal(t, 2, twice[1].Quantity)
}

func TestSummarize(t *testing.T) {
	discounted := 80.0
	products := map[string]model.Product{
		"p1": {ID: "p1", Price: 100, DiscountedPrice: &discounted, HasDiscount: true},
		"p2": {ID: "p2", Price: 50},
		"p3": {ID: "p3", Price: 150},
	}

	tests := []struct {
		name  string
		items []model.CartItem
		want  model.CartSummary
	}{
		{
			name:  "discounted and plain items",
			items: []model.CartItem{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}},
			want:  model.CartSummary{ItemCount: 3, Subtotal: 210, DeliveryFee: 30, Taxes: 11, Total: 251},
		},
		{
			name:  "free delivery at threshold",
			items: []model.CartItem{{ProductID: "p3", Quantity: 2}},
			want:  model.CartSummary{ItemCount: 2, Subtotal: 300, DeliveryFee: 0, Taxes: 15, Total: 315},
		},
		{
			name:  "missing product counts but adds nothing",
			items: []model.CartItem{{ProductID: "gone", Quantity: 4}, {ProductID: "p2", Quantity: 1}},
			want:  model.CartSummary{ItemCount: 5, Subtotal: 50, DeliveryFee: 30, Taxes: 3, Total: 83},
		},
		{
			name:  "empty cart",
			items: nil,
			want:  model.CartSummary{DeliveryFee: 30, Total: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.items, products, DefaultPricing()))
		})
	}
}

func TestPricing_DeliveryFeeFor(t *testing.T) {
	p := DefaultPricing()
	assert.Equal(t, 30.0, p.DeliveryFeeFor(298.99))
	assert.Equal(t, 0.0, p.DeliveryFeeFor(299))
	assert.Equal(t, 13.0, p.TaxesFor(250))
}
