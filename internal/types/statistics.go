package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Summary holds the capital-level outcome of a replay.
type Summary struct {
	InitialCapital float64   `yaml:"initial_capital"`
	FinalCapital   float64   `yaml:"final_capital"`
	TotalPnL       float64   `yaml:"total_pnl"`
	TotalReturnPct float64   `yaml:"total_return_pct"`
	MaxDrawdownPct float64   `yaml:"max_drawdown_pct"`
	StartTime      time.Time `yaml:"start_time"`
	EndTime        time.Time `yaml:"end_time"`
}

// SignalStats counts signal dispositions across the whole replay.
type SignalStats struct {
	TotalSignals      int     `yaml:"total_signals"`
	PassedFilters     int     `yaml:"signals_passed_filters"`
	Rejected          int     `yaml:"signals_rejected"`
	DegenerateSignals int     `yaml:"degenerate_signals"`
	ComponentErrors   int     `yaml:"component_errors"`
	FilterPassRate    float64 `yaml:"filter_pass_rate"`
}

// TradeCounts counts executed trade outcomes.
type TradeCounts struct {
	TotalTrades int     `yaml:"total_trades"`
	Wins        int     `yaml:"wins"`
	Losses      int     `yaml:"losses"`
	Breakevens  int     `yaml:"breakevens"`
	WinRate     float64 `yaml:"win_rate"`
}

// Performance holds the post-processed trade quality metrics.
type Performance struct {
	AvgWin       float64 `yaml:"avg_win"`
	AvgWinPct    float64 `yaml:"avg_win_pct"`
	LargestWin   float64 `yaml:"largest_win"`
	AvgLoss      float64 `yaml:"avg_loss"`
	AvgLossPct   float64 `yaml:"avg_loss_pct"`
	LargestLoss  float64 `yaml:"largest_loss"`
	ProfitFactor float64 `yaml:"profit_factor"`
	Expectancy   float64 `yaml:"expectancy"`
	AvgBarsHeld  float64 `yaml:"avg_bars_held"`
	AvgMFE       float64 `yaml:"avg_mfe"`
	AvgMAE       float64 `yaml:"avg_mae"`
}

// GroupStats is the per-strategy or per-direction breakdown.
type GroupStats struct {
	Trades   int     `yaml:"trades"`
	Wins     int     `yaml:"wins"`
	WinRate  float64 `yaml:"win_rate"`
	TotalPnL float64 `yaml:"total_pnl"`
}

// ReplayResult is the full results structure handed to reporting and export
// collaborators. It can be recomputed idempotently from the closed-trade
// list at any time.
type ReplayResult struct {
	// ID is the unique identifier for this replay run.
	ID string `yaml:"id"`
	// EngineVersion is the signal-replay version that produced the result.
	EngineVersion string `yaml:"engine_version"`
	// Timestamp is when the replay was executed.
	Timestamp time.Time `yaml:"timestamp"`
	Symbol    string    `yaml:"symbol"`

	Summary     Summary     `yaml:"summary"`
	Signals     SignalStats `yaml:"signals"`
	Trades      TradeCounts `yaml:"trades"`
	Performance Performance `yaml:"performance"`

	// FilterRejections maps filter name to how many signals it rejected.
	FilterRejections map[string]int `yaml:"filter_rejections"`

	ByStrategy  map[string]GroupStats `yaml:"by_strategy"`
	ByDirection map[string]GroupStats `yaml:"by_direction"`

	// AllTrades includes rejected signals for diagnostics; only entries
	// with Executed=true participated in capital accounting.
	AllTrades []Position `yaml:"all_trades"`
}

// WriteResult marshals the replay result to YAML at the given path.
func WriteResult(path string, result ReplayResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal replay result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write replay result to file: %w", err)
	}

	return nil
}
