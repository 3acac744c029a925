package types

import (
	"fmt"
	"time"
)

// ExitReason labels why a position was closed.
type ExitReason string

const (
	ExitReasonStop    ExitReason = "stop"
	ExitReasonTarget  ExitReason = "target"
	ExitReasonTimeout ExitReason = "timeout"
	// ExitReasonBacktestEnd marks a forced close when replay data ran out
	// while the position was still open. Distinct from timeout.
	ExitReasonBacktestEnd ExitReason = "backtest_end"
)

// Position is a single simulated trade. The engine holds at most one open
// Position at a time. Static fields are fixed at open, the excursion fields
// are updated once per bar while open, and the exit fields are set exactly
// once at close; after that the Position is append-only history.
type Position struct {
	// Identity and entry.
	SignalID         string    `yaml:"signal_id"`
	Time             time.Time `yaml:"time"`
	Symbol           string    `yaml:"symbol"`
	Direction        Direction `yaml:"direction"`
	Strategy         string    `yaml:"strategy"`
	EntryPrice       float64   `yaml:"entry_price"`
	ActualEntryPrice float64   `yaml:"actual_entry_price"`
	StopPrice        float64   `yaml:"stop_price"`
	TargetPrice      float64   `yaml:"target_price"`
	PositionSize     float64   `yaml:"position_size"`
	EntrySlippage    float64   `yaml:"entry_slippage"`

	// Filter results for diagnostics; present on rejected trades too.
	Executed      bool              `yaml:"executed"`
	FilterPassed  bool              `yaml:"filter_passed"`
	FailedFilters []string          `yaml:"failed_filters,omitempty"`
	Diagnostics   map[string]string `yaml:"diagnostics,omitempty"`

	// Updated per bar while open. Both excursions are fractions of
	// ActualEntryPrice.
	BarsHeld              int     `yaml:"bars_held"`
	MaxFavorableExcursion float64 `yaml:"max_favorable_excursion"`
	MaxAdverseExcursion   float64 `yaml:"max_adverse_excursion"`

	// Set exactly once at close.
	ExitTime           time.Time  `yaml:"exit_time"`
	ExitPrice          float64    `yaml:"exit_price"`
	ExitReason         ExitReason `yaml:"exit_reason"`
	PnLPoints          float64    `yaml:"pnl_points"`
	PnLPercent         float64    `yaml:"pnl_percent"`
	PnLDollar          float64    `yaml:"pnl_dollar"`
	Win                bool       `yaml:"win"`
	RiskRewardAchieved float64    `yaml:"risk_reward_achieved"`
}

// NewSignalID derives the position identity from the strategy that emitted
// the signal and the entry timestamp.
func NewSignalID(strategy string, t time.Time) string {
	return fmt.Sprintf("%s_%s", strategy, t.Format("20060102_150405"))
}

// Closed reports whether the position has reached its terminal state.
func (p *Position) Closed() bool {
	return p.ExitReason != ""
}

// Risk returns the per-unit distance between the actual entry and the stop.
func (p *Position) Risk() float64 {
	risk := p.ActualEntryPrice - p.StopPrice
	if risk < 0 {
		risk = -risk
	}

	return risk
}
