package handler

import (
	"net/http"

	"bolpur-mart/internal/model"
	"bolpur-mart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests for the request's session owner.
type CartHandler struct {
	carts    service.CartService
	sessions service.SessionService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, sessions service.SessionService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		sessions: sessions,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	cart, err := h.carts.Cart(r.Context(), sess)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.AddCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), sess, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/item/{id}. A quantity of zero removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if req.Quantity == nil {
		writeError(w, r, model.NewDomainError(model.ErrCodeMissingField, "quantity is required"), h.logger)
		return
	}

	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	cart, err := h.carts.UpdateItem(r.Context(), sess, r.PathValue("id"), *req.Quantity)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/item/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	cart, err := h.carts.Clear(r.Context(), sess)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// ClearUser handles DELETE /api/cart/user/{userId}.
func (h *CartHandler) ClearUser(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.ClearUser(r.Context(), r.PathValue("userId")); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /api/cart/summary.
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	summary, err := h.carts.Summary(r.Context(), sess)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
