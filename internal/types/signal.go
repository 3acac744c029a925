package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/signal-replay/pkg/errors"
)

// Direction is the side of a trade.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Signal is a trade proposal produced by a strategy from a MarketState.
// Immutable once emitted.
type Signal struct {
	Time        time.Time `yaml:"time" validate:"required"`
	Direction   Direction `yaml:"direction" validate:"required,oneof=long short"`
	EntryPrice  float64   `yaml:"entry_price" validate:"required,gt=0"`
	StopPrice   float64   `yaml:"stop_price" validate:"required,gt=0"`
	TargetPrice float64   `yaml:"target_price" validate:"required,gt=0"`
	StrategyID  string    `yaml:"strategy_id" validate:"required"`
	// Reason is a free-form explanation for diagnostics.
	Reason string `yaml:"reason"`
}

// Validate validates the Signal struct. A zero-distance stop is still a
// valid signal here; the execution simulator resolves it to "no trade".
func (s *Signal) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid signal", err)
	}

	return nil
}

// FilterVerdict is the outcome of running one signal through the filter
// chain. Produced once per signal.
type FilterVerdict struct {
	Passed bool
	// PositionSizeMultiplier scales the risk-based position size, 0-1.
	PositionSizeMultiplier float64
	// FailedFilters names every filter that rejected the signal.
	FailedFilters []string
	// Diagnostics maps filter name to its human-readable reason.
	Diagnostics map[string]string
}

// PassedVerdict returns the verdict for a signal no filter objected to.
func PassedVerdict() FilterVerdict {
	return FilterVerdict{
		Passed:                 true,
		PositionSizeMultiplier: 1.0,
		FailedFilters:          nil,
		Diagnostics:            map[string]string{},
	}
}
