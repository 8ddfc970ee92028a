// Package timeslot decides which configured time slot is current and which
// catalogue entries are visible in it.
//
// Windows are half-open [start, end) over "HH:MM" wall-clock strings compared
// lexically, which is correct because the format is zero padded. A window whose
// start is after its end crosses midnight. A window whose start equals its end
// is zero width and never matches.
package timeslot

import (
	"fmt"
	"sort"
	"time"

	"bolpur-mart/internal/model"
)

// Clock returns the current wall-clock time.
type Clock func() time.Time

// FormatClock formats t as the "HH:MM" string windows are compared against.
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Contains reports whether the "HH:MM" time now falls inside slot's window.
func Contains(slot model.TimeRuleSlot, now string) bool {
	switch {
	case slot.StartTime == slot.EndTime:
		return false
	case slot.StartTime > slot.EndTime:
		return now >= slot.StartTime || now < slot.EndTime
	default:
		return now >= slot.StartTime && now < slot.EndTime
	}
}

// OrderedIDs returns the slot ids in evaluation order: ascending priority, then id.
func OrderedIDs(config model.TimeRulesConfig) []string {
	ids := make([]string, 0, len(config))
	for id := range config {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		pi, pj := config[ids[i]].Priority, config[ids[j]].Priority
		if pi != pj {
			return pi < pj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// ResolveCurrentSlot returns the id of the first active slot whose window
// contains now. ok is false when no slot matches or config is empty.
func ResolveCurrentSlot(config model.TimeRulesConfig, now time.Time) (slotID string, ok bool) {
	current := FormatClock(now)
	for _, id := range OrderedIDs(config) {
		slot := config[id]
		if !slot.IsActive {
			continue
		}
		if Contains(slot, current) {
			return id, true
		}
	}
	return "", false
}

// AllowedCategories returns the allow-list of slotID as stored, or an empty
// list when the slot is unknown.
func AllowedCategories(config model.TimeRulesConfig, slotID string) []model.CategoryRef {
	slot, ok := config[slotID]
	if !ok || slot.AllowedCategories == nil {
		return []model.CategoryRef{}
	}
	return slot.AllowedCategories
}

// CategoryIDs extracts the ids from refs, preserving order.
func CategoryIDs(refs []model.CategoryRef) []string {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids
}

// Remaining returns the whole minutes left before slot's window closes,
// measured from now. It returns 0 when now is outside the window.
func Remaining(slot model.TimeRuleSlot, now time.Time) int {
	if !Contains(slot, FormatClock(now)) {
		return 0
	}
	end, err := parseClock(slot.EndTime)
	if err != nil {
		return 0
	}
	current := now.Hour()*60 + now.Minute()
	remaining := end - current
	if remaining <= 0 {
		remaining += 24 * 60
	}
	return remaining
}

// Current describes the slot active at now, or returns false when none is.
func Current(config model.TimeRulesConfig, now time.Time) (model.CurrentSlot, bool) {
	id, ok := ResolveCurrentSlot(config, now)
	if !ok {
		return model.CurrentSlot{}, false
	}
	slot := config[id]
	return model.CurrentSlot{
		ID:                id,
		Name:              slot.TimeSlotName,
		StartTime:         slot.StartTime,
		EndTime:           slot.EndTime,
		MinutesRemaining:  Remaining(slot, now),
		AllowedCategories: AllowedCategories(config, id),
	}, true
}
