package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"bolpur-mart/internal/middleware"
	"bolpur-mart/internal/model"
	"bolpur-mart/internal/service"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent.
		return
	}
}

// writeError maps err to a status code and error body. Internal errors are
// logged and reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status := model.HTTPStatus(err)

	var de *model.DomainError
	if status == http.StatusInternalServerError || !errors.As(err, &de) {
		logger.Error().Err(err).
			Str("request_id", middleware.RequestIDFrom(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("handler error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "internal server error",
		})
		return
	}

	logger.Debug().Str("code", de.Code).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
	writeJSON(w, status, model.ErrorResponse{Error: de.Code, Message: de.Message})
}

// decodeJSON reads a JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Request body is not valid JSON")
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, model.NewDomainError(model.ErrCodeInvalidParameter, "Invalid "+name+" parameter")
	}
	return v, nil
}

// sessionFrom resolves the visitor session of a request from the guest
// header and the authenticated user.
func sessionFrom(r *http.Request, sessions service.SessionService) (*model.Session, error) {
	return sessions.Resolve(r.Context(), middleware.GuestID(r), middleware.UserID(r.Context()))
}
