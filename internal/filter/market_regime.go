package filter

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/types"
)

const (
	regimeMinPercentile    = 10.0
	regimeMaxPercentile    = 95.0
	regimeReducePercentile = 80.0
	regimeReduceMultiplier = 0.5
)

// MarketRegime blocks trades when volatility sits outside the tradable
// band: a dead market below the minimum ATR percentile, a disorderly one
// above the maximum. Elevated but tradable volatility passes at half size.
type MarketRegime struct {
	timeframe types.Timeframe
}

func NewMarketRegime() *MarketRegime {
	return &MarketRegime{timeframe: types.Timeframe15m}
}

func (f *MarketRegime) Name() string {
	return "market_regime"
}

func (f *MarketRegime) Check(state *types.MarketState, direction types.Direction, reference optional.Option[*types.MarketState]) Result {
	snapshot, ok := state.Snapshot(f.timeframe)
	if !ok || !snapshot.Indicators.ATR.Valid {
		return fail("no ATR data available")
	}

	percentile := snapshot.Indicators.ATR.Percentile
	switch {
	case percentile < regimeMinPercentile:
		return fail(fmt.Sprintf("ATR too low (%.1fth percentile)", percentile))
	case percentile > regimeMaxPercentile:
		return fail(fmt.Sprintf("ATR too high (%.1fth percentile)", percentile))
	case percentile > regimeReducePercentile:
		return reduced(fmt.Sprintf("elevated volatility (%.1fth percentile), reduced size", percentile),
			regimeReduceMultiplier)
	}

	if snapshot.Indicators.ATR.Compressed {
		return pass(fmt.Sprintf("volatility compressed at %.1fth percentile, breakout conditions", percentile))
	}

	return pass(fmt.Sprintf("ATR at %.1fth percentile", percentile))
}
