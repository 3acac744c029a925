// Package strategy ships the built-in signal generators. Each strategy is a
// pure function of the market state it is handed; none keeps state between
// bars.
package strategy

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/types"
)

const (
	trendMinStrength   = 0.25
	trendPullbackMax   = 0.05
	trendStopATRMult   = 2.0
	trendTargetATRMult = 3.0
	trendMinRiskReward = 1.5
	trendMinCandles    = 100
)

// TrendFollowing enters on pullbacks to the fast EMA inside an established
// trend. It complements mean reversion: it earns in the trending markets
// where mean reversion bleeds.
type TrendFollowing struct {
	timeframe types.Timeframe
}

func NewTrendFollowing(timeframe types.Timeframe) *TrendFollowing {
	return &TrendFollowing{timeframe: timeframe}
}

func (s *TrendFollowing) Name() string {
	return "trend_following"
}

func (s *TrendFollowing) Analyze(state *types.MarketState) (optional.Option[types.Signal], error) {
	none := optional.None[types.Signal]()

	snapshot, ok := state.Snapshot(s.timeframe)
	if !ok || len(snapshot.Candles) < trendMinCandles {
		return none, nil
	}

	trend := snapshot.Indicators.Trend
	atr := snapshot.Indicators.ATR
	if !trend.Valid || !atr.Valid || atr.Value <= 0 {
		return none, nil
	}
	if trend.Strength < trendMinStrength {
		return none, nil
	}

	price := snapshot.CurrentPrice
	pullback := math.Abs(price-trend.EMAFast) / trend.EMAFast

	var direction types.Direction
	switch {
	case trend.Direction == types.TrendUp && trend.EMAFast > trend.EMASlow &&
		price > trend.EMASlow && pullback < trendPullbackMax:
		direction = types.DirectionLong
	case trend.Direction == types.TrendDown && trend.EMAFast < trend.EMASlow &&
		price < trend.EMASlow && pullback < trendPullbackMax:
		direction = types.DirectionShort
	default:
		return none, nil
	}

	stop := price - atr.Value*trendStopATRMult
	target := price + atr.Value*trendTargetATRMult
	if direction == types.DirectionShort {
		stop = price + atr.Value*trendStopATRMult
		target = price - atr.Value*trendTargetATRMult
	}

	risk := math.Abs(price - stop)
	if risk <= 0 || math.Abs(target-price)/risk < trendMinRiskReward {
		return none, nil
	}

	return optional.Some(types.Signal{
		Time:        state.Time,
		Direction:   direction,
		EntryPrice:  price,
		StopPrice:   stop,
		TargetPrice: target,
		StrategyID:  s.Name(),
		Reason:      "pullback to fast EMA inside established trend",
	}), nil
}
