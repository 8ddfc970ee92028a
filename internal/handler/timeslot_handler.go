package handler

import (
	"net/http"

	"bolpur-mart/internal/model"
	"bolpur-mart/internal/service"

	"github.com/rs/zerolog"
)

// CurrentSlotResponse wraps the active slot; Slot is null outside every window.
type CurrentSlotResponse struct {
	Slot *model.CurrentSlot `json:"slot"`
}

// TimeSlotHandler serves the current slot and the time rules settings.
type TimeSlotHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewTimeSlotHandler creates a new time slot handler.
func NewTimeSlotHandler(service service.CatalogService, logger zerolog.Logger) *TimeSlotHandler {
	return &TimeSlotHandler{
		service: service,
		logger:  logger.With().Str("handler", "timeslot").Logger(),
	}
}

// Current handles GET /api/timeslot/current.
func (h *TimeSlotHandler) Current(w http.ResponseWriter, r *http.Request) {
	slot, err := h.service.CurrentSlot(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, CurrentSlotResponse{Slot: slot})
}

// GetRules handles GET /api/settings/time-rules.
func (h *TimeSlotHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.TimeRules(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if rules == nil {
		rules = model.TimeRulesConfig{}
	}
	writeJSON(w, http.StatusOK, rules)
}

// PutRules handles PUT /api/settings/time-rules.
func (h *TimeSlotHandler) PutRules(w http.ResponseWriter, r *http.Request) {
	var rules model.TimeRulesConfig
	if err := decodeJSON(r, &rules); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.SaveTimeRules(r.Context(), rules); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	h.logger.Info().Int("slots", len(rules)).Msg("time rules updated")
	writeJSON(w, http.StatusOK, rules)
}
