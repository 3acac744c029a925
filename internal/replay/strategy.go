package replay

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/types"
	"github.com/rxtech-lab/signal-replay/pkg/errors"
)

// Strategy is the pluggable signal-generator contract. Analyze must be a
// pure function of the supplied MarketState; keeping bar-dependent state
// outside the MarketState silently reintroduces look-ahead bias.
type Strategy interface {
	// Name identifies the strategy in results and logs.
	Name() string
	// Analyze inspects the market state and proposes at most one signal.
	Analyze(state *types.MarketState) (optional.Option[types.Signal], error)
}

// FilterChain is the pluggable risk-filter contract. CheckAll runs every
// configured filter against the proposed trade and aggregates the verdict.
type FilterChain interface {
	CheckAll(
		state *types.MarketState,
		direction types.Direction,
		strategyID string,
		reference optional.Option[*types.MarketState],
	) (types.FilterVerdict, error)
}

// safeAnalyze invokes a strategy and converts a panic inside the pluggable
// component into a typed error, so one bad strategy cannot halt the replay.
func safeAnalyze(strategy Strategy, state *types.MarketState) (result optional.Option[types.Signal], err error) {
	defer func() {
		if r := recover(); r != nil {
			result = optional.None[types.Signal]()
			err = errors.Newf(errors.ErrCodeStrategyPanic, "strategy %s panicked: %v", strategy.Name(), r)
		}
	}()

	result, err = strategy.Analyze(state)
	if err != nil {
		return optional.None[types.Signal](), errors.Wrapf(errors.ErrCodeStrategyFailed, err,
			"strategy %s failed", strategy.Name())
	}

	return result, nil
}

// safeCheckAll invokes the filter chain with the same panic boundary. On a
// component failure the signal is treated as passed-through, per the error
// taxonomy: data and component errors must never abort the replay.
func safeCheckAll(
	chain FilterChain,
	state *types.MarketState,
	direction types.Direction,
	strategyID string,
	reference optional.Option[*types.MarketState],
) (verdict types.FilterVerdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			verdict = types.PassedVerdict()
			err = errors.Newf(errors.ErrCodeFilterPanic, "filter chain panicked: %v", r)
		}
	}()

	verdict, err = chain.CheckAll(state, direction, strategyID, reference)
	if err != nil {
		return types.PassedVerdict(), errors.Wrap(errors.ErrCodeFilterFailed, "filter chain failed", err)
	}

	return verdict, nil
}
