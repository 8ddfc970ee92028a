package model

// TimeRuleSlot is one configured availability window.
// StartTime and EndTime are 24-hour "HH:MM" wall-clock strings with no timezone.
type TimeRuleSlot struct {
	TimeSlotName      string        `json:"timeSlotName" yaml:"timeSlotName" mapstructure:"timeSlotName"`
	StartTime         string        `json:"startTime" yaml:"startTime" mapstructure:"startTime"`
	EndTime           string        `json:"endTime" yaml:"endTime" mapstructure:"endTime"`
	AllowedCategories []CategoryRef `json:"allowedCategories" yaml:"allowedCategories" mapstructure:"allowedCategories"`
	IsActive          bool          `json:"isActive" yaml:"isActive" mapstructure:"isActive"`
	// Priority orders evaluation when windows overlap; lower wins.
	Priority int `json:"priority" yaml:"priority" mapstructure:"priority"`
}

// TimeRulesConfig maps an opaque slot id to its rule.
type TimeRulesConfig map[string]TimeRuleSlot

// TimeRulesSettingKey is the settings document holding the TimeRulesConfig.
const TimeRulesSettingKey = "timeRules"

// CurrentSlot describes the slot that is active right now.
type CurrentSlot struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	StartTime         string        `json:"startTime"`
	EndTime           string        `json:"endTime"`
	MinutesRemaining  int           `json:"minutesRemaining"`
	AllowedCategories []CategoryRef `json:"allowedCategories"`
}
