package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"bolpur-mart/internal/cart"
	"bolpur-mart/internal/events"
	"bolpur-mart/internal/model"
	"bolpur-mart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultOrderListLimit caps OrdersForUser when the caller passes no limit.
const DefaultOrderListLimit = 20

// Payment states recorded alongside the order.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// deliveryWindows maps a delivery type to its estimated lead time.
var deliveryWindows = map[model.DeliverySlotType]time.Duration{
	model.DeliveryImmediate: 30 * time.Minute,
	model.DeliveryExpress:   60 * time.Minute,
	model.DeliveryScheduled: 2 * time.Hour,
}

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	publisher   events.Publisher
	pricing     cart.Pricing
	logger      zerolog.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	publisher events.Publisher,
	pricing cart.Pricing,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		publisher:   publisher,
		pricing:     pricing,
		logger:      logger.With().Str("service", "order").Logger(),
		now:         time.Now,
	}
}

// NewOrderNumber builds "ORD" + the last 8 digits of the epoch millis + 9
// random upper-case base36 characters.
func NewOrderNumber(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}

	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	var b strings.Builder
	b.Grow(3 + len(millis) + 9)
	b.WriteString("ORD")
	b.WriteString(millis)
	for range 9 {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// PlaceOrder turns the user's cart into an order. The cart row stays locked
// from the read until the order commits, and the cart is emptied in the same
// transaction.
func (s *orderService) PlaceOrder(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error) {
	if userID == "" {
		return nil, model.ErrUnauthenticated
	}
	if err := s.validateCheckout(req); err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	items, err := s.cartRepo.LockTx(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(items) == 0 {
		err = model.ErrEmptyCart
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get cart products")
		return nil, fmt.Errorf("failed to get cart products: %w", err)
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	order := s.buildOrder(userID, req, items, byID)
	if order == nil {
		s.logger.Warn().Str("user_id", userID).Msg("cart references unknown products")
		err = model.ErrProductNotFound
		return nil, err
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.cartRepo.DeleteTx(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("user_id", userID).
		Int("item_count", len(order.Items)).
		Float64("total", order.Total).
		Msg("order placed")

	s.publish(ctx, order, events.TypeOrderPlaced, "", events.AudienceAdmin, events.AudienceCustomer)
	return order, nil
}

// buildOrder snapshots items at their effective prices. It returns nil when an
// item's product no longer exists.
func (s *orderService) buildOrder(userID string, req *model.CheckoutRequest, items []model.CartItem, products map[string]model.Product) *model.Order {
	now := s.now()

	orderItems := make([]model.OrderItem, 0, len(items))
	var discount float64
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			return nil
		}
		price := p.EffectivePrice()
		orderItems = append(orderItems, model.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			Price:       price,
			Total:       roundMoney(price * float64(item.Quantity)),
			ImageURL:    p.ImageURL,
			Variant:     item.Variant,
		})
		discount += (p.Price - price) * float64(item.Quantity)
	}

	summary := cart.Summarize(items, products, s.pricing)

	slotType := req.DeliverySlotType
	if slotType == "" {
		slotType = model.DeliveryImmediate
	}
	method := req.PaymentMethod
	if method == "" {
		method = model.PaymentCashOnDelivery
	}

	details := model.PaymentDetails{}
	if req.PaymentDetails != nil {
		details = *req.PaymentDetails
	}
	details.VerificationStatus = model.VerificationPending

	order := &model.Order{
		ID:              uuid.New(),
		OrderNumber:     NewOrderNumber(now),
		CustomerID:      userID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		DeliveryAddress: req.DeliveryAddress,
		Items:           orderItems,
		Subtotal:        roundMoney(summary.Subtotal),
		DeliveryFee:     summary.DeliveryFee,
		Taxes:           summary.Taxes,
		Discount:        roundMoney(discount),
		Total:           roundMoney(summary.Total),
		Status:          model.OrderStatusPlaced,
		PaymentStatus:   PaymentStatusPending,
		PaymentMethod:   method,
		PaymentDetails:  details,
		DeliverySlot: model.DeliverySlot{
			Type:          slotType,
			EstimatedTime: now.Add(deliveryWindows[slotType]).UTC(),
			Fee:           summary.DeliveryFee,
			ScheduledDate: req.ScheduledDate,
			ScheduledTime: req.ScheduledTime,
		},
		Notes:               req.Notes,
		SpecialInstructions: req.SpecialInstructions,
		Tracking:            model.OrderTracking{PlacedAt: now.UTC()},
		IsCancellable:       true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if order.DeliveryAddress.FullAddress == "" {
		a := order.DeliveryAddress
		order.DeliveryAddress.FullAddress = fmt.Sprintf("%s, %s, %s - %s", a.Street, a.City, a.State, a.PinCode)
	}
	return order
}

func missingField(name string) error {
	return model.NewDomainError(model.ErrCodeMissingField, name+" is required")
}

// validateCheckout validates the checkout request.
func (s *orderService) validateCheckout(req *model.CheckoutRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "checkout request is empty")
	}

	required := []struct {
		name  string
		value string
	}{
		{"customerName", req.CustomerName},
		{"customerPhone", req.CustomerPhone},
		{"deliveryAddress.street", req.DeliveryAddress.Street},
		{"deliveryAddress.city", req.DeliveryAddress.City},
		{"deliveryAddress.pinCode", req.DeliveryAddress.PinCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return missingField(f.name)
		}
	}

	switch req.PaymentMethod {
	case "", model.PaymentCashOnDelivery:
	case model.PaymentUPIOnline:
		if req.PaymentDetails == nil || strings.TrimSpace(req.PaymentDetails.UPITransactionID) == "" {
			return missingField("paymentDetails.upiTransactionId")
		}
	default:
		return model.NewDomainError(model.ErrCodeInvalidStatus, "unknown payment method "+string(req.PaymentMethod))
	}

	switch req.DeliverySlotType {
	case "", model.DeliveryImmediate, model.DeliveryExpress:
	case model.DeliveryScheduled:
		if req.ScheduledDate == "" || req.ScheduledTime == "" {
			return missingField("scheduledDate and scheduledTime")
		}
	default:
		return model.NewDomainError(model.ErrCodeInvalidStatus, "unknown delivery slot type "+string(req.DeliverySlotType))
	}

	return nil
}

// Order retrieves an order by its ID.
func (s *orderService) Order(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// OrdersForUser lists the user's most recent orders.
func (s *orderService) OrdersForUser(ctx context.Context, userID string, limit int) ([]model.Order, error) {
	if userID == "" {
		return nil, model.ErrUnauthenticated
	}
	if limit <= 0 || limit > DefaultOrderListLimit {
		limit = DefaultOrderListLimit
	}

	orders, err := s.orderRepo.ListByCustomer(ctx, userID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order along its status machine and stamps the time
// the new status was reached.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidOrderStatus
	}

	var previous model.OrderStatus
	order, err := s.orderRepo.Update(ctx, id, func(o *model.Order) error {
		if !o.Status.CanTransitionTo(status) {
			return model.ErrInvalidStatusTransition
		}
		previous = o.Status
		s.applyStatus(o, status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("order status changed")

	s.publish(ctx, order, events.TypeOrderStatusChanged, previous, events.AudienceAdmin, events.AudienceCustomer)
	return order, nil
}

func (s *orderService) applyStatus(o *model.Order, status model.OrderStatus) {
	now := s.now()
	o.Status = status
	o.Tracking.Stamp(status, now.UTC())
	o.UpdatedAt = now

	switch status {
	case model.OrderStatusDelivered:
		if o.PaymentMethod == model.PaymentCashOnDelivery {
			o.PaymentStatus = PaymentStatusPaid
		}
	case model.OrderStatusRefunded:
		o.PaymentStatus = PaymentStatusRefunded
	}
}

// Cancel cancels one of the user's orders while it is still cancellable.
func (s *orderService) Cancel(ctx context.Context, userID string, id uuid.UUID, reason string) (*model.Order, error) {
	if userID == "" {
		return nil, model.ErrUnauthenticated
	}

	var previous model.OrderStatus
	order, err := s.orderRepo.Update(ctx, id, func(o *model.Order) error {
		if o.CustomerID != userID {
			return model.ErrForbidden
		}
		if !o.Status.Cancellable() {
			return model.ErrOrderNotCancellable
		}
		previous = o.Status
		s.applyStatus(o, model.OrderStatusCancelled)
		o.CancelReason = strings.TrimSpace(reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.String()).Str("user_id", userID).Msg("order cancelled")
	s.publish(ctx, order, events.TypeOrderStatusChanged, previous, events.AudienceAdmin)
	return order, nil
}

// UpdateVerification records the review outcome of a non-cash payment.
func (s *orderService) UpdateVerification(ctx context.Context, id uuid.UUID, status model.VerificationStatus) (*model.Order, error) {
	order, err := s.orderRepo.Update(ctx, id, func(o *model.Order) error {
		if !o.PaymentDetails.VerificationStatus.CanTransitionTo(status) {
			return model.ErrInvalidVerificationTransition
		}
		o.PaymentDetails.VerificationStatus = status
		if status == model.VerificationVerified {
			o.PaymentStatus = PaymentStatusPaid
		} else {
			o.PaymentStatus = PaymentStatusFailed
		}
		o.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.String()).Str("verification", string(status)).Msg("payment verification updated")
	return order, nil
}

// publish sends one event per audience. Failures are logged; the order has
// already been committed.
func (s *orderService) publish(ctx context.Context, order *model.Order, eventType string, previous model.OrderStatus, audiences ...string) {
	batch := make([]events.Event, 0, len(audiences))
	for _, audience := range audiences {
		e := events.NewEvent(eventType, audience)
		e.OrderID = order.ID.String()
		e.OrderNumber = order.OrderNumber
		e.CustomerID = order.CustomerID
		e.Status = string(order.Status)
		e.PreviousStatus = string(previous)
		e.Total = order.Total
		batch = append(batch, e)
	}

	if err := s.publisher.Publish(ctx, batch...); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Str("type", eventType).Msg("failed to publish order events")
	}
}
