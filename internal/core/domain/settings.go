package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Settings are the user-tunable discovery dials.
type Settings struct {
	PopularityBias    int `json:"popularityBias" validate:"gte=0,lte=100"`
	FreshnessDays     int `json:"freshnessDays" validate:"gte=1,lte=3650"`
	ObscurityMinScore int `json:"obscurityMinScore" validate:"gte=0,lte=100"`
}

// DefaultSettings matches the settings a new user starts with.
func DefaultSettings() Settings {
	return Settings{PopularityBias: 35, FreshnessDays: 30, ObscurityMinScore: 0}
}

var settingsValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the dial ranges.
func (s Settings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		return fmt.Errorf("domain: invalid settings: %w", err)
	}
	return nil
}

// PopularityCeiling is the highest popularity a candidate may have to be kept.
func (s Settings) PopularityCeiling() int {
	return 100 - s.PopularityBias
}
