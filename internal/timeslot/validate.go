package timeslot

import (
	"fmt"
	"strconv"
	"strings"

	"bolpur-mart/internal/model"
)

const minutesPerDay = 24 * 60

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("time %q is not in HH:MM format", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q has an invalid minute", s)
	}
	return h*60 + m, nil
}

// minutes expands a slot's window into the set of minutes of the day it covers.
func minutes(slot model.TimeRuleSlot) ([]bool, error) {
	start, err := parseClock(slot.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(slot.EndTime)
	if err != nil {
		return nil, err
	}

	covered := make([]bool, minutesPerDay)
	for m := start; m != end; m = (m + 1) % minutesPerDay {
		covered[m] = true
	}
	return covered, nil
}

// ValidateConfig checks that every slot has well-formed times and that no two
// active slots cover the same minute of the day.
func ValidateConfig(config model.TimeRulesConfig) error {
	owner := make([]string, minutesPerDay)

	for _, id := range OrderedIDs(config) {
		slot := config[id]
		covered, err := minutes(slot)
		if err != nil {
			return fmt.Errorf("slot %s: %w: %s", id, model.ErrInvalidTimeRule, err.Error())
		}
		if !slot.IsActive {
			continue
		}
		for m, in := range covered {
			if !in {
				continue
			}
			if owner[m] != "" {
				return fmt.Errorf("slots %s and %s at %02d:%02d: %w", owner[m], id, m/60, m%60, model.ErrOverlappingTimeSlots)
			}
			owner[m] = id
		}
	}
	return nil
}
