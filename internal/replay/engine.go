package replay

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/history"
	"github.com/rxtech-lab/signal-replay/internal/logger"
	"github.com/rxtech-lab/signal-replay/internal/types"
	"github.com/rxtech-lab/signal-replay/pkg/errors"
	"go.uber.org/zap"
)

// OnProgressCallback reports replay progress after each primary bar.
// Returning an error aborts the run.
type OnProgressCallback func(current int, total int) error

// Engine drives the replay: one sequential fold over the primary-timeframe
// bars, holding at most one open position at any time. On every bar the
// engine either advances the open position or consults the strategies,
// never both, so a position can never be opened and closed on its entry bar.
type Engine struct {
	config     SimulationConfig
	log        *logger.Logger
	builder    *MarketStateBuilder
	executor   *ExecutionSimulator
	lifecycle  *PositionLifecycle
	strategies []Strategy
	filters    FilterChain

	ledger       *Ledger
	openPosition optional.Option[types.Position]
	trades       []types.Position
	rejected     []types.Position
}

func NewEngine(config SimulationConfig, log *logger.Logger, filters FilterChain, strategies ...Strategy) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(strategies) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "at least one strategy is required")
	}

	return &Engine{
		config:       config,
		log:          log,
		builder:      NewMarketStateBuilder(config),
		executor:     NewExecutionSimulator(&config, log),
		lifecycle:    NewPositionLifecycle(&config),
		strategies:   strategies,
		filters:      filters,
		ledger:       NewLedger(config.InitialCapital),
		openPosition: optional.None[types.Position](),
	}, nil
}

// Run replays the primary series bar by bar and returns the aggregated
// result. The optional reference series is a second instrument whose state
// is rebuilt each bar and handed to the filter chain; bars where either
// state cannot be built are skipped.
func (e *Engine) Run(
	series history.Series,
	reference optional.Option[history.Series],
	onProgress optional.Option[OnProgressCallback],
) (types.ReplayResult, error) {
	primary, ok := series[e.config.PrimaryTimeframe]
	if !ok || len(primary) == 0 {
		return types.ReplayResult{}, errors.Newf(errors.ErrCodeDataNotFound,
			"no candles for primary timeframe %s", e.config.PrimaryTimeframe)
	}

	first, last := e.barRange(primary)
	if first >= last {
		return types.ReplayResult{}, errors.New(errors.ErrCodeDataNotFound,
			"no candles inside the configured time range")
	}

	total := last - first
	var lastBar types.Bar

	for i := first; i < last; i++ {
		bar := primary[i]
		lastBar = bar

		if callback, err := onProgress.Take(); err == nil {
			if err := callback(i-first+1, total); err != nil {
				return types.ReplayResult{}, err
			}
		}

		state, err := e.builder.Build(e.config.Symbol, series, i).Take()
		if err != nil {
			continue
		}

		referenceState := optional.None[*types.MarketState]()
		if refSeries, err := reference.Take(); err == nil {
			refState, err := e.buildReference(refSeries, bar.Time).Take()
			if err != nil {
				continue
			}
			referenceState = optional.Some(&refState)
		}

		if position, err := e.openPosition.Take(); err == nil {
			e.advancePosition(&position, bar)
			continue
		}

		if !e.ledger.CanTrade(bar.Time, &e.config) {
			continue
		}

		if err := e.processSignals(&state, referenceState, bar); err != nil {
			return types.ReplayResult{}, err
		}
	}

	if position, err := e.openPosition.Take(); err == nil {
		e.closePosition(&position, ExitDecision{Price: lastBar.Close, Reason: types.ExitReasonBacktestEnd}, lastBar.Time)
	}

	if err := e.checkConservation(); err != nil {
		return types.ReplayResult{}, err
	}

	result := BuildResult(&e.config, e.ledger, e.trades, e.rejected, primary[first].Time, lastBar.Time)
	e.log.Info("replay finished",
		zap.String("run_id", result.ID),
		zap.Int("bars", total),
		zap.Int("trades", len(e.trades)),
		zap.Float64("final_capital", result.Summary.FinalCapital))

	return result, nil
}

// barRange resolves the primary bar indices covered by the configured
// start and end times. Both bounds are inclusive.
func (e *Engine) barRange(primary []types.Bar) (int, int) {
	first := 0
	if start, err := e.config.StartTime.Take(); err == nil {
		first = sort.Search(len(primary), func(i int) bool {
			return !primary[i].Time.Before(start)
		})
	}
	last := len(primary)
	if end, err := e.config.EndTime.Take(); err == nil {
		last = sort.Search(len(primary), func(i int) bool {
			return primary[i].Time.After(end)
		})
	}
	return first, last
}

func (e *Engine) buildReference(refSeries history.Series, t time.Time) optional.Option[types.MarketState] {
	refPrimary, ok := refSeries[e.config.PrimaryTimeframe]
	if !ok {
		return optional.None[types.MarketState]()
	}
	index := sort.Search(len(refPrimary), func(i int) bool {
		return refPrimary[i].Time.After(t)
	}) - 1
	if index < 0 {
		return optional.None[types.MarketState]()
	}
	return e.builder.Build(e.config.ReferenceSymbol, refSeries, index)
}

// advancePosition gives the open position one bar: bars-held, excursions,
// then the exit check.
func (e *Engine) advancePosition(position *types.Position, bar types.Bar) {
	position.BarsHeld++
	e.lifecycle.UpdateExcursions(position, bar)

	if decision, err := e.lifecycle.CheckExit(position, bar).Take(); err == nil {
		e.closePosition(position, decision, bar.Time)
		return
	}

	e.openPosition = optional.Some(*position)
}

func (e *Engine) closePosition(position *types.Position, decision ExitDecision, exitTime time.Time) {
	e.lifecycle.Close(position, decision, exitTime)
	e.ledger.ApplyClose(position.PnLDollar, position.ActualEntryPrice, &e.config)
	e.trades = append(e.trades, *position)
	e.openPosition = optional.None[types.Position]()

	e.log.Debug("position closed",
		zap.String("signal_id", position.SignalID),
		zap.String("reason", string(position.ExitReason)),
		zap.Float64("pnl", position.PnLDollar))
}

// processSignals consults the strategies in registration order and acts on
// the first signal produced. Component failures are counted and logged but
// never abort the replay.
func (e *Engine) processSignals(state *types.MarketState, referenceState optional.Option[*types.MarketState], bar types.Bar) error {
	for _, strategy := range e.strategies {
		signalOpt, err := safeAnalyze(strategy, state)
		if err != nil {
			e.ledger.RecordComponentError()
			e.log.Warn("strategy error", zap.String("strategy", strategy.Name()), zap.Error(err))
			continue
		}

		signal, err := signalOpt.Take()
		if err != nil {
			continue
		}

		if err := signal.Validate(); err != nil {
			e.ledger.RecordComponentError()
			e.log.Warn("invalid signal", zap.String("strategy", strategy.Name()), zap.Error(err))
			continue
		}

		e.ledger.RecordSignal()
		return e.admitSignal(signal, state, referenceState)
	}

	return nil
}

// admitSignal runs the filter chain and, if the signal survives, sizes and
// opens the position.
func (e *Engine) admitSignal(signal types.Signal, state *types.MarketState, referenceState optional.Option[*types.MarketState]) error {
	verdict, err := safeCheckAll(e.filters, state, signal.Direction, signal.StrategyID, referenceState)
	if err != nil {
		e.ledger.RecordComponentError()
		e.log.Warn("filter error, signal passed through", zap.Error(err))
	}

	if !verdict.Passed {
		e.ledger.RecordRejected(verdict.FailedFilters)
		e.rejected = append(e.rejected, types.Position{
			SignalID:      types.NewSignalID(signal.StrategyID, signal.Time),
			Time:          signal.Time,
			Symbol:        e.config.Symbol,
			Direction:     signal.Direction,
			Strategy:      signal.StrategyID,
			EntryPrice:    signal.EntryPrice,
			StopPrice:     signal.StopPrice,
			TargetPrice:   signal.TargetPrice,
			FailedFilters: verdict.FailedFilters,
			Diagnostics:   verdict.Diagnostics,
		})
		return nil
	}
	e.ledger.RecordPassed()

	position, err := e.executor.Execute(signal, verdict, e.ledger.CurrentCapital()).Take()
	if err != nil {
		e.ledger.RecordDegenerate()
		return nil
	}

	if e.openPosition.IsSome() {
		return errors.New(errors.ErrCodePositionAlreadyOpen,
			"attempted to open a position while one is already open")
	}

	e.openPosition = optional.Some(position)
	e.ledger.RecordTradeOpened(signal.Time)
	return nil
}

func (e *Engine) checkConservation() error {
	total := decimalSum(e.trades)
	return e.ledger.CheckConservation(total)
}
