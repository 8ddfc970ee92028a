package handler

import (
	"net/http"

	"bolpur-mart/internal/service"

	"github.com/rs/zerolog"
)

// CategoryHandler serves the category listings.
type CategoryHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service service.CatalogService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Available handles GET /api/categories/available.
func (h *CategoryHandler) Available(w http.ResponseWriter, r *http.Request) {
	refs, err := h.service.AvailableCategories(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, refs)
}

// ForSlot handles GET /api/categories/timeslot/{slot}.
func (h *CategoryHandler) ForSlot(w http.ResponseWriter, r *http.Request) {
	refs, err := h.service.CategoriesForSlot(r.Context(), r.PathValue("slot"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, refs)
}
