package replay

import (
	"sort"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/history"
	"github.com/rxtech-lab/signal-replay/internal/indicator"
	"github.com/rxtech-lab/signal-replay/internal/types"
)

// MarketStateBuilder assembles the point-in-time view of the market for a
// single primary bar. Every snapshot contains only candles whose timestamp
// is at or before the current bar, truncated to the configured lookback, so
// strategies and filters can never observe future data.
type MarketStateBuilder struct {
	config SimulationConfig
}

func NewMarketStateBuilder(config SimulationConfig) *MarketStateBuilder {
	return &MarketStateBuilder{config: config}
}

// Build returns the market state at primary-timeframe bar index barIndex,
// or None when the index is out of range or any timeframe in the series has
// no candle at or before the current timestamp. Callers skip the bar on
// None rather than aborting the replay.
func (b *MarketStateBuilder) Build(symbol string, series history.Series, barIndex int) optional.Option[types.MarketState] {
	primary, ok := series[b.config.PrimaryTimeframe]
	if !ok || barIndex < 0 || barIndex >= len(primary) {
		return optional.None[types.MarketState]()
	}

	currentTime := primary[barIndex].Time
	state := types.MarketState{
		Symbol:     symbol,
		Time:       currentTime,
		Timeframes: make(map[types.Timeframe]types.TimeframeSnapshot, len(series)),
	}

	for timeframe, candles := range series {
		// Candles are sorted ascending, so the window of visible bars is
		// everything before the first timestamp after currentTime.
		end := sort.Search(len(candles), func(i int) bool {
			return candles[i].Time.After(currentTime)
		})
		if end == 0 {
			return optional.None[types.MarketState]()
		}

		start := 0
		if lookback := b.config.Lookback(timeframe); end > lookback {
			start = end - lookback
		}
		visible := candles[start:end]

		state.Timeframes[timeframe] = types.TimeframeSnapshot{
			Candles:      visible,
			CurrentPrice: visible[len(visible)-1].Close,
			Indicators:   indicator.Snapshot(visible),
		}
	}

	return optional.Some(state)
}
