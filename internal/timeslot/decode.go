package timeslot

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"bolpur-mart/internal/model"
)

// DecodeConfig converts a stored settings document into a TimeRulesConfig.
// A nil document decodes to an empty config.
func DecodeConfig(document map[string]any) (model.TimeRulesConfig, error) {
	config := model.TimeRulesConfig{}
	if document == nil {
		return config, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &config,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create time rules decoder: %w", err)
	}

	if err := decoder.Decode(document); err != nil {
		return nil, fmt.Errorf("failed to decode time rules: %w", err)
	}
	return config, nil
}

// EncodeConfig converts config into the generic document shape stored in settings.
func EncodeConfig(config model.TimeRulesConfig) (map[string]any, error) {
	document := make(map[string]any, len(config))
	for id, slot := range config {
		var out map[string]any
		if err := mapstructure.Decode(slot, &out); err != nil {
			return nil, fmt.Errorf("failed to encode time slot %s: %w", id, err)
		}
		document[id] = out
	}
	return document, nil
}
