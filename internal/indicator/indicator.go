// Package indicator provides the deterministic, stateless indicator
// arithmetic attached to every market-state snapshot. All functions are pure
// over the supplied candle window: they carry no state across calls and are
// recomputed from scratch each bar, trading CPU for the guarantee that an
// indicator can never leak information across bars.
package indicator

import (
	"github.com/rxtech-lab/signal-replay/internal/types"
)

const (
	// minSnapshotBars is the minimum window size before any indicator
	// group is computed. Below this everything stays Valid=false.
	minSnapshotBars = 20

	atrPeriod            = 14
	rsiPeriod            = 14
	bollingerPeriod      = 20
	bollingerStdDev      = 2.0
	volumeAveragePeriod  = 20
	compressionThreshold = 0.7
)

// Snapshot computes the full indicator set for one candle window. Groups
// whose minimum window is not met are left zero-valued with Valid=false;
// the caller decides whether that matters.
func Snapshot(candles []types.Bar) types.IndicatorSet {
	var set types.IndicatorSet

	if len(candles) < minSnapshotBars {
		return set
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	volumes := make([]float64, len(candles))

	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
	}

	if atrSeries := ATRSeries(highs, lows, closes, atrPeriod); len(atrSeries) > 0 {
		current := atrSeries[len(atrSeries)-1]
		previous := current

		if len(atrSeries) > 1 {
			previous = atrSeries[len(atrSeries)-2]
		}

		set.ATR = types.ATRSnapshot{
			Valid:      true,
			Value:      current,
			Previous:   previous,
			Percentile: ATRPercentile(current, atrSeries),
			Compressed: IsVolatilityCompressed(atrSeries, compressionThreshold),
		}
	}

	set.Trend = Trend(closes)

	if rsi, err := RSI(closes, rsiPeriod); err == nil {
		set.Momentum = types.MomentumSnapshot{
			Valid: true,
			RSI:   rsi,
		}
	}

	if bands, err := Bollinger(closes, bollingerPeriod, bollingerStdDev); err == nil {
		set.Bollinger = types.BollingerSnapshot{
			Valid:    true,
			Upper:    bands.Upper,
			Middle:   bands.Middle,
			Lower:    bands.Lower,
			Position: bands.PricePosition(closes[len(closes)-1]),
		}
	}

	if avg := SMA(volumes, min(volumeAveragePeriod, len(volumes))); avg > 0 {
		current := volumes[len(volumes)-1]
		set.Volume = types.VolumeSnapshot{
			Valid:   true,
			Current: current,
			Average: avg,
			Ratio:   current / avg,
		}
	}

	return set
}
