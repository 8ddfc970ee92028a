package model

import (
	"errors"
	"net/http"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeInvalidParameter     = "INVALID_PARAMETER"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeProductUnavailable   = "PRODUCT_UNAVAILABLE"
	ErrCodeTimeSlotNotFound     = "TIME_SLOT_NOT_FOUND"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeCartItemNotFound     = "CART_ITEM_NOT_FOUND"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeInvalidStatus        = "INVALID_STATUS"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeInvalidTimeRule      = "INVALID_TIME_RULE"
	ErrCodeOverlappingTimeSlots = "OVERLAPPING_TIME_SLOTS"
	ErrCodeSessionNotFound      = "SESSION_NOT_FOUND"
	ErrCodeAlreadyMerged        = "ALREADY_MERGED"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound               = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrProductUnavailable            = NewDomainError(ErrCodeProductUnavailable, "Product is not available right now")
	ErrTimeSlotNotFound              = NewDomainError(ErrCodeTimeSlotNotFound, "Time slot not found")
	ErrInvalidQuantity               = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrNegativeQuantity              = NewDomainError(ErrCodeInvalidQuantity, "Quantity cannot be negative")
	ErrCartItemNotFound              = NewDomainError(ErrCodeCartItemNotFound, "Cart item not found")
	ErrEmptyCart                     = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrOrderNotFound                 = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidOrderStatus            = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrInvalidStatusTransition       = NewDomainError(ErrCodeInvalidTransition, "Order cannot move to the requested status")
	ErrInvalidVerificationTransition = NewDomainError(ErrCodeInvalidTransition, "Payment verification has already been decided")
	ErrOrderNotCancellable           = NewDomainError(ErrCodeInvalidTransition, "Order can no longer be cancelled")
	ErrInvalidTimeRule               = NewDomainError(ErrCodeInvalidTimeRule, "Time rule has an invalid window")
	ErrOverlappingTimeSlots          = NewDomainError(ErrCodeOverlappingTimeSlots, "Active time slots overlap")
	ErrSessionNotFound               = NewDomainError(ErrCodeSessionNotFound, "Session not found or expired")
	ErrGuestCartAlreadyMerged        = NewDomainError(ErrCodeAlreadyMerged, "Guest cart has already been merged for this session")
	ErrUnauthenticated               = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrForbidden                     = NewDomainError(ErrCodeForbidden, "Not allowed to access this resource")
)

// HTTPStatus maps an error to the HTTP status it should be reported with.
// Anything that is not a DomainError is an internal error.
func HTTPStatus(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}

	switch de.Code {
	case ErrCodeProductNotFound, ErrCodeTimeSlotNotFound, ErrCodeCartItemNotFound,
		ErrCodeOrderNotFound, ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidTransition, ErrCodeAlreadyMerged:
		return http.StatusConflict
	case ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
