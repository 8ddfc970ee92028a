package handler

import (
	"net/http"

	"bolpur-mart/internal/middleware"
	"bolpur-mart/internal/model"
	"bolpur-mart/internal/service"

	"github.com/rs/zerolog"
)

// SessionHandler handles the visitor session lifecycle.
type SessionHandler struct {
	service service.SessionService
	logger  zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(service service.SessionService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With().Str("handler", "session").Logger(),
	}
}

// Create handles POST /api/session. The new guest id is returned in the body
// and in the X-Guest-ID header.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Start(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.Header().Set(middleware.GuestIDHeader, sess.GuestID)
	writeJSON(w, http.StatusCreated, model.SessionResponse{Session: sess})
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r, h.service)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, model.SessionResponse{Session: sess})
}

// Merge handles POST /api/session/merge. It moves the guest cart and
// wishlist into the signed-in user's account.
func (h *SessionHandler) Merge(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Merge(r.Context(), middleware.GuestID(r), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Destroy handles DELETE /api/session.
func (h *SessionHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	guestID := middleware.GuestID(r)
	if guestID == "" {
		writeError(w, r, model.ErrSessionNotFound, h.logger)
		return
	}

	if err := h.service.End(r.Context(), guestID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
