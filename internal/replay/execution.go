package replay

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/logger"
	"github.com/rxtech-lab/signal-replay/internal/types"
	"go.uber.org/zap"
)

// ExecutionSimulator converts an admitted signal into an open position,
// applying risk-based sizing and entry slippage. It never mutates capital;
// capital only moves when a position closes.
type ExecutionSimulator struct {
	config *SimulationConfig
	log    *logger.Logger
}

func NewExecutionSimulator(config *SimulationConfig, log *logger.Logger) *ExecutionSimulator {
	return &ExecutionSimulator{config: config, log: log}
}

// Execute sizes and fills the signal at the signal's entry price adjusted
// by slippage against the trader. Returns None for degenerate signals:
// zero distance between entry and stop, or a resolved size of zero.
func (e *ExecutionSimulator) Execute(
	signal types.Signal,
	verdict types.FilterVerdict,
	capital float64,
) optional.Option[types.Position] {
	stopDistance := math.Abs(signal.EntryPrice - signal.StopPrice)
	if stopDistance <= 0 {
		e.log.Warn("degenerate signal: entry equals stop",
			zap.String("strategy", signal.StrategyID),
			zap.Float64("entry", signal.EntryPrice))
		return optional.None[types.Position]()
	}

	riskAmount := capital * e.config.MaxRiskPerTrade * verdict.PositionSizeMultiplier
	positionSize := riskAmount / stopDistance
	if positionSize <= 0 {
		e.log.Warn("degenerate signal: resolved position size is zero",
			zap.String("strategy", signal.StrategyID),
			zap.Float64("risk_amount", riskAmount))
		return optional.None[types.Position]()
	}

	// Slippage moves the fill against the trader: long entries fill higher,
	// short entries fill lower.
	actualEntry := signal.EntryPrice * (1 + e.config.SlippageFraction)
	if signal.Direction == types.DirectionShort {
		actualEntry = signal.EntryPrice * (1 - e.config.SlippageFraction)
	}

	position := types.Position{
		SignalID:         types.NewSignalID(signal.StrategyID, signal.Time),
		Time:             signal.Time,
		Symbol:           e.config.Symbol,
		Direction:        signal.Direction,
		Strategy:         signal.StrategyID,
		EntryPrice:       signal.EntryPrice,
		ActualEntryPrice: actualEntry,
		StopPrice:        signal.StopPrice,
		TargetPrice:      signal.TargetPrice,
		PositionSize:     positionSize,
		EntrySlippage:    math.Abs(actualEntry - signal.EntryPrice),
		Executed:         true,
		FilterPassed:     true,
		FailedFilters:    verdict.FailedFilters,
		Diagnostics:      verdict.Diagnostics,
	}

	e.log.Debug("position opened",
		zap.String("signal_id", position.SignalID),
		zap.String("direction", string(position.Direction)),
		zap.Float64("actual_entry", actualEntry),
		zap.Float64("size", positionSize))

	return optional.Some(position)
}
