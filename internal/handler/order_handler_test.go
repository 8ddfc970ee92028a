package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bolpur-mart/internal/auth"
	"bolpur-mart/internal/model"
	"bolpur-mart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const checkoutBody = `{
	"customerName": "Asha Roy",
	"customerPhone": "9876543210",
	"deliveryAddress": {"street": "12 Station Rd", "city": "Bolpur", "pinCode": "731204"},
	"paymentMethod": "cash_on_delivery",
	"deliverySlotType": "immediate"
}`

func testOrder(customerID string) *model.Order {
	return &model.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD12345678ABCDEFGHI",
		CustomerID:  customerID,
		Status:      model.OrderStatusPlaced,
		Total:       105,
	}
}

func TestOrderHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		callsSvc   bool
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "places order", body: checkoutBody, callsSvc: true, wantStatus: http.StatusCreated},
		{name: "empty cart", body: checkoutBody, callsSvc: true, serviceErr: model.ErrEmptyCart, wantStatus: http.StatusBadRequest, wantCode: model.ErrCodeEmptyCart},
		{name: "invalid json", body: `{"customerName":`, wantStatus: http.StatusBadRequest, wantCode: model.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			if tt.callsSvc {
				call := svc.On("PlaceOrder", mock.Anything, "u-1", mock.MatchedBy(func(req *model.CheckoutRequest) bool {
					return req.CustomerName == "Asha Roy" && req.PaymentMethod == model.PaymentCashOnDelivery
				}))
				if tt.serviceErr != nil {
					call.Return(nil, tt.serviceErr)
				} else {
					call.Return(testOrder("u-1"), nil)
				}
			}

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(tt.body)), "u-1", auth.RoleCustomer)
			w := httptest.NewRecorder()
			NewOrderHandler(svc, zerolog.Nop()).Create(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		result     []model.Order
		wantStatus int
		wantBody   string
	}{
		{name: "default limit", wantLimit: service.DefaultOrderListLimit, result: []model.Order{*testOrder("u-1")}, wantStatus: http.StatusOK},
		{name: "explicit limit", query: "?limit=5", wantLimit: 5, result: []model.Order{}, wantStatus: http.StatusOK},
		{name: "no orders", wantLimit: service.DefaultOrderListLimit, result: nil, wantStatus: http.StatusOK, wantBody: `[]`},
		{name: "bad limit", query: "?limit=abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			if tt.wantStatus == http.StatusOK {
				svc.On("OrdersForUser", mock.Anything, "u-1", tt.wantLimit).Return(tt.result, nil)
			}

			req := withUser(httptest.NewRequest(http.MethodGet, "/api/orders"+tt.query, nil), "u-1", auth.RoleCustomer)
			w := httptest.NewRecorder()
			NewOrderHandler(svc, zerolog.Nop()).List(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Get(t *testing.T) {
	order := testOrder("u-1")

	tests := []struct {
		name       string
		pathID     string
		userID     string
		role       string
		found      bool
		wantStatus int
	}{
		{name: "owner", pathID: order.ID.String(), userID: "u-1", role: auth.RoleCustomer, found: true, wantStatus: http.StatusOK},
		{name: "admin", pathID: order.ID.String(), userID: "admin-1", role: auth.RoleAdmin, found: true, wantStatus: http.StatusOK},
		{name: "another customer", pathID: order.ID.String(), userID: "u-2", role: auth.RoleCustomer, found: true, wantStatus: http.StatusForbidden},
		{name: "unknown order", pathID: order.ID.String(), userID: "u-1", role: auth.RoleCustomer, wantStatus: http.StatusNotFound},
		{name: "malformed id", pathID: "not-a-uuid", userID: "u-1", role: auth.RoleCustomer, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			if tt.pathID == order.ID.String() {
				if tt.found {
					svc.On("Order", mock.Anything, order.ID).Return(order, nil)
				} else {
					svc.On("Order", mock.Anything, order.ID).Return(nil, model.ErrOrderNotFound)
				}
			}

			req := httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.pathID, nil)
			req.SetPathValue("id", tt.pathID)
			req = withUser(req, tt.userID, tt.role)
			w := httptest.NewRecorder()
			NewOrderHandler(svc, zerolog.Nop()).Get(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var got model.Order
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, order.OrderNumber, got.OrderNumber)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Cancel(t *testing.T) {
	order := testOrder("u-1")
	cancelled := *order
	cancelled.Status = model.OrderStatusCancelled

	tests := []struct {
		name       string
		body       string
		wantReason string
		err        error
		wantStatus int
	}{
		{name: "with reason", body: `{"reason":"ordered twice"}`, wantReason: "ordered twice", wantStatus: http.StatusOK},
		{name: "without body", body: "", wantReason: "", wantStatus: http.StatusOK},
		{name: "too late", body: "", err: model.ErrOrderNotCancellable, wantStatus: http.StatusConflict},
		{name: "not the owner", body: "", err: model.ErrForbidden, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			if tt.err != nil {
				svc.On("Cancel", mock.Anything, "u-1", order.ID, tt.wantReason).Return(nil, tt.err)
			} else {
				svc.On("Cancel", mock.Anything, "u-1", order.ID, tt.wantReason).Return(&cancelled, nil)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/orders/"+order.ID.String()+"/cancel", strings.NewReader(tt.body))
			req.SetPathValue("id", order.ID.String())
			req = withUser(req, "u-1", auth.RoleCustomer)
			w := httptest.NewRecorder()
			NewOrderHandler(svc, zerolog.Nop()).Cancel(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_AdminUpdates(t *testing.T) {
	order := testOrder("u-1")

	t.Run("status", func(t *testing.T) {
		tests := []struct {
			name       string
			body       string
			status     model.OrderStatus
			err        error
			wantStatus int
		}{
			{name: "valid transition", body: `{"status":"confirmed"}`, status: model.OrderStatusConfirmed, wantStatus: http.StatusOK},
			{name: "skipping ahead", body: `{"status":"delivered"}`, status: model.OrderStatusDelivered, err: model.ErrInvalidStatusTransition, wantStatus: http.StatusConflict},
			{name: "unknown status", body: `{"status":"lost"}`, status: model.OrderStatus("lost"), err: model.ErrInvalidOrderStatus, wantStatus: http.StatusBadRequest},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := new(MockOrderService)
				if tt.err != nil {
					svc.On("UpdateStatus", mock.Anything, order.ID, tt.status).Return(nil, tt.err)
				} else {
					svc.On("UpdateStatus", mock.Anything, order.ID, tt.status).Return(order, nil)
				}

				req := httptest.NewRequest(http.MethodPut, "/api/orders/"+order.ID.String()+"/status", strings.NewReader(tt.body))
				req.SetPathValue("id", order.ID.String())
				w := httptest.NewRecorder()
				NewOrderHandler(svc, zerolog.Nop()).UpdateStatus(w, req)

				assert.Equal(t, tt.wantStatus, w.Code)
				svc.AssertExpectations(t)
			})
		}
	})

	t.Run("verification", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("UpdateVerification", mock.Anything, order.ID, model.VerificationVerified).Return(order, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/orders/"+order.ID.String()+"/verification", strings.NewReader(`{"status":"verified"}`))
		req.SetPathValue("id", order.ID.String())
		w := httptest.NewRecorder()
		NewOrderHandler(svc, zerolog.Nop()).UpdateVerification(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}
