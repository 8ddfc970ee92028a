package handler

import (
	"net/http"

	"bolpur-mart/internal/model"
	"bolpur-mart/internal/service"
	"bolpur-mart/internal/wishlist"

	"github.com/rs/zerolog"
)

// ContainsResponse reports whether a product is on the wishlist.
type ContainsResponse struct {
	ProductID  string `json:"productId"`
	InWishlist bool   `json:"inWishlist"`
}

// WishlistHandler handles wishlist HTTP requests.
type WishlistHandler struct {
	wishlists wishlist.Service
	sessions  service.SessionService
	logger    zerolog.Logger
}

// NewWishlistHandler creates a new wishlist handler.
func NewWishlistHandler(wishlists wishlist.Service, sessions service.SessionService, logger zerolog.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlists: wishlists,
		sessions:  sessions,
		logger:    logger.With().Str("handler", "wishlist").Logger(),
	}
}

func listOrEmpty(items []model.WishlistItem) []model.WishlistItem {
	if items == nil {
		return []model.WishlistItem{}
	}
	return items
}

// List handles GET /api/wishlist.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	items, err := h.wishlists.List(r.Context(), sess)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(items))
}

// Add handles POST /api/wishlist.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.WishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	items, err := h.wishlists.Add(r.Context(), sess, req.ProductID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(items))
}

// Contains handles GET /api/wishlist/{productId}.
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	productID := r.PathValue("productId")
	ok, err := h.wishlists.Contains(r.Context(), sess, productID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, ContainsResponse{ProductID: productID, InWishlist: ok})
}

// Remove handles DELETE /api/wishlist/{productId}.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	items, err := h.wishlists.Remove(r.Context(), sess, r.PathValue("productId"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(items))
}

// Clear handles DELETE /api/wishlist.
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r, h.sessions)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.wishlists.Clear(r.Context(), sess); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
