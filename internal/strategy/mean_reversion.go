package strategy

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/types"
)

const (
	reversionMaxStrength = 0.25
	reversionOversold    = 30.0
	reversionOverbought  = 70.0
	reversionBandTouch   = 0.05
	reversionStopATRMult = 1.5
	reversionSwingBars   = 10
	reversionMinCandles  = 50
)

// MeanReversion fades RSI extremes at the Bollinger bands and targets the
// middle band. It only trades ranging markets; in a strong trend the edge
// inverts, so trend strength above the cap blocks the setup entirely.
type MeanReversion struct {
	timeframe types.Timeframe
}

func NewMeanReversion(timeframe types.Timeframe) *MeanReversion {
	return &MeanReversion{timeframe: timeframe}
}

func (s *MeanReversion) Name() string {
	return "mean_reversion"
}

func (s *MeanReversion) Analyze(state *types.MarketState) (optional.Option[types.Signal], error) {
	none := optional.None[types.Signal]()

	snapshot, ok := state.Snapshot(s.timeframe)
	if !ok || len(snapshot.Candles) < reversionMinCandles {
		return none, nil
	}

	trend := snapshot.Indicators.Trend
	momentum := snapshot.Indicators.Momentum
	bollinger := snapshot.Indicators.Bollinger
	atr := snapshot.Indicators.ATR
	if !momentum.Valid || !bollinger.Valid || !atr.Valid || atr.Value <= 0 {
		return none, nil
	}
	if trend.Valid && trend.Strength >= reversionMaxStrength {
		return none, nil
	}

	var direction types.Direction
	switch {
	case momentum.RSI <= reversionOversold && bollinger.Position <= reversionBandTouch:
		direction = types.DirectionLong
	case momentum.RSI >= reversionOverbought && bollinger.Position >= 1-reversionBandTouch:
		direction = types.DirectionShort
	default:
		return none, nil
	}

	price := snapshot.CurrentPrice
	swingLow, swingHigh := recentSwing(snapshot.Candles, reversionSwingBars)

	// Stop beyond the recent swing, target at the middle band.
	stop := swingLow - atr.Value*reversionStopATRMult
	target := bollinger.Middle
	if direction == types.DirectionShort {
		stop = swingHigh + atr.Value*reversionStopATRMult
	}

	if math.Abs(price-stop) <= 0 {
		return none, nil
	}
	if (direction == types.DirectionLong && target <= price) ||
		(direction == types.DirectionShort && target >= price) {
		return none, nil
	}

	return optional.Some(types.Signal{
		Time:        state.Time,
		Direction:   direction,
		EntryPrice:  price,
		StopPrice:   stop,
		TargetPrice: target,
		StrategyID:  s.Name(),
		Reason:      "RSI extreme at Bollinger band in ranging market",
	}), nil
}

// recentSwing returns the lowest low and highest high of the last n candles.
func recentSwing(candles []types.Bar, n int) (float64, float64) {
	if len(candles) < n {
		n = len(candles)
	}
	window := candles[len(candles)-n:]

	low, high := window[0].Low, window[0].High
	for _, candle := range window[1:] {
		if candle.Low < low {
			low = candle.Low
		}
		if candle.High > high {
			high = candle.High
		}
	}
	return low, high
}
