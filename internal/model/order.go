package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusRefunded       OrderStatus = "refunded"
)

// orderTransitions lists the statuses reachable from each status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:         {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusDelivered:      {OrderStatusRefunded},
	OrderStatusCancelled:      {OrderStatusRefunded},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in status s can still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s.CanTransitionTo(OrderStatusCancelled)
}

// VerificationStatus is the review state of a non-cash payment.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// CanTransitionTo reports whether verification may move from v to next.
func (v VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	return v == VerificationPending && (next == VerificationVerified || next == VerificationRejected)
}

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentUPIOnline      PaymentMethod = "upi_online"
)

// DeliverySlotType selects how fast an order is delivered.
type DeliverySlotType string

const (
	DeliveryImmediate DeliverySlotType = "immediate"
	DeliveryExpress   DeliverySlotType = "express"
	DeliveryScheduled DeliverySlotType = "scheduled"
)

// Address is a delivery address snapshot.
type Address struct {
	ID            string `json:"id,omitempty"`
	Type          string `json:"type,omitempty"`
	ReceiverName  string `json:"receiverName"`
	ReceiverPhone string `json:"receiverPhone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	PinCode       string `json:"pinCode"`
	FullAddress   string `json:"fullAddress,omitempty"`
}

// DeliverySlot is the chosen delivery window.
type DeliverySlot struct {
	Type          DeliverySlotType `json:"type"`
	EstimatedTime time.Time        `json:"estimatedTime"`
	Fee           float64          `json:"fee"`
	ScheduledDate string           `json:"scheduledDate,omitempty"`
	ScheduledTime string           `json:"scheduledTime,omitempty"`
}

// PaymentDetails captures payment proof for non-cash orders.
type PaymentDetails struct {
	UPITransactionID   string             `json:"upiTransactionId,omitempty"`
	UPIID              string             `json:"upiId,omitempty"`
	PaymentScreenshot  string             `json:"paymentScreenshot,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
}

// OrderTracking records when each status was reached.
type OrderTracking struct {
	PlacedAt         time.Time  `json:"placedAt"`
	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
	PreparingAt      *time.Time `json:"preparingAt,omitempty"`
	OutForDeliveryAt *time.Time `json:"outForDeliveryAt,omitempty"`
	DeliveredAt      *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
	RefundedAt       *time.Time `json:"refundedAt,omitempty"`
}

// Stamp records at for status.
func (t *OrderTracking) Stamp(status OrderStatus, at time.Time) {
	switch status {
	case OrderStatusPlaced:
		t.PlacedAt = at
	case OrderStatusConfirmed:
		t.ConfirmedAt = &at
	case OrderStatusPreparing:
		t.PreparingAt = &at
	case OrderStatusOutForDelivery:
		t.OutForDeliveryAt = &at
	case OrderStatusDelivered:
		t.DeliveredAt = &at
	case OrderStatusCancelled:
		t.CancelledAt = &at
	case OrderStatusRefunded:
		t.RefundedAt = &at
	}
}

// Order represents a placed customer order.
type Order struct {
	ID                  uuid.UUID      `json:"id" db:"id"`
	OrderNumber         string         `json:"orderNumber" db:"order_number"`
	CustomerID          string         `json:"customerId" db:"customer_id"`
	CustomerName        string         `json:"customerName"`
	CustomerPhone       string         `json:"customerPhone"`
	CustomerEmail       string         `json:"customerEmail,omitempty"`
	DeliveryAddress     Address        `json:"deliveryAddress"`
	Items               []OrderItem    `json:"items"`
	Subtotal            float64        `json:"subtotal"`
	DeliveryFee         float64        `json:"deliveryFee"`
	Taxes               float64        `json:"taxes"`
	Discount            float64        `json:"discount"`
	Total               float64        `json:"total"`
	Status              OrderStatus    `json:"status" db:"status"`
	PaymentStatus       string         `json:"paymentStatus"`
	PaymentMethod       PaymentMethod  `json:"paymentMethod"`
	PaymentDetails      PaymentDetails `json:"paymentDetails"`
	DeliverySlot        DeliverySlot   `json:"deliverySlot"`
	Notes               string         `json:"notes,omitempty"`
	SpecialInstructions string         `json:"specialInstructions,omitempty"`
	Tracking            OrderTracking  `json:"orderTracking"`
	CancelReason        string         `json:"cancelReason,omitempty"`
	IsCancellable       bool           `json:"isCancellable"`
	CreatedAt           time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time      `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item snapshot in an order.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Variant     string  `json:"variant,omitempty"`
}

// CheckoutRequest represents the request payload for placing an order.
type CheckoutRequest struct {
	CustomerName        string           `json:"customerName"`
	CustomerPhone       string           `json:"customerPhone"`
	CustomerEmail       string           `json:"customerEmail,omitempty"`
	DeliveryAddress     Address          `json:"deliveryAddress"`
	PaymentMethod       PaymentMethod    `json:"paymentMethod"`
	PaymentDetails      *PaymentDetails  `json:"paymentDetails,omitempty"`
	DeliverySlotType    DeliverySlotType `json:"deliverySlotType"`
	ScheduledDate       string           `json:"scheduledDate,omitempty"`
	ScheduledTime       string           `json:"scheduledTime,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	SpecialInstructions string           `json:"specialInstructions,omitempty"`
}

// StatusUpdateRequest represents the request payload for an order status change.
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
}

// VerificationUpdateRequest represents the request payload for a payment review.
type VerificationUpdateRequest struct {
	Status VerificationStatus `json:"status"`
}

// CancelRequest represents the request payload for cancelling an order.
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}
