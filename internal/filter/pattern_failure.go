package filter

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/types"
)

const (
	trapThreshold      = 0.03
	trapWindow         = 5
	stopHuntWickRatio  = 4.0
	stopHuntWindow     = 3
	lowLiquidityRatio  = 0.15
	patternMinimumBars = 10
)

// PatternFailure looks for trap patterns on the lower timeframe that
// invalidate a setup: bull and bear traps, stop-hunt wicks, and entries on
// low-liquidity spikes. Missing data passes; the filter only blocks on a
// positive detection.
type PatternFailure struct {
	timeframe types.Timeframe
	fallback  types.Timeframe
}

func NewPatternFailure() *PatternFailure {
	return &PatternFailure{timeframe: types.Timeframe5m, fallback: types.Timeframe15m}
}

func (f *PatternFailure) Name() string {
	return "pattern_failure"
}

func (f *PatternFailure) Check(state *types.MarketState, direction types.Direction, reference optional.Option[*types.MarketState]) Result {
	snapshot, ok := state.Snapshot(f.timeframe)
	if !ok {
		snapshot, ok = state.Snapshot(f.fallback)
	}
	if !ok {
		return pass("no pattern data, allowed")
	}

	candles := snapshot.Candles
	if len(candles) < patternMinimumBars {
		return pass("insufficient candle data, allowed")
	}

	if result := detectTrap(candles, direction); !result.Passed {
		return result
	}
	if result := detectStopHunt(candles, direction); !result.Passed {
		return result
	}
	if result := detectLowLiquiditySpike(candles, snapshot.Indicators.Volume); !result.Passed {
		return result
	}

	return pass("no trap patterns detected")
}

// detectTrap flags a spike through a recent extreme that reversed sharply:
// a bull trap ahead of a long, a bear trap ahead of a short.
func detectTrap(candles []types.Bar, direction types.Direction) Result {
	recent := candles[len(candles)-trapWindow:]

	highest, lowest := recent[0].High, recent[0].Low
	for _, candle := range recent[1:] {
		highest = math.Max(highest, candle.High)
		lowest = math.Min(lowest, candle.Low)
	}

	priceRange := highest - lowest
	if priceRange <= 0 {
		return pass("no price range")
	}

	currentClose := recent[len(recent)-1].Close
	if direction == types.DirectionLong && recent[len(recent)-2].High == highest {
		drop := (highest - currentClose) / priceRange
		if drop > trapThreshold {
			return fail(fmt.Sprintf("bull trap: dropped %.1f%% of range from high", drop*100))
		}
	}
	if direction == types.DirectionShort && recent[len(recent)-2].Low == lowest {
		rally := (currentClose - lowest) / priceRange
		if rally > trapThreshold {
			return fail(fmt.Sprintf("bear trap: rallied %.1f%% of range from low", rally*100))
		}
	}

	return pass("no traps detected")
}

// detectStopHunt flags oversized wicks on the last few candles, the
// footprint of a liquidity grab against the signal direction.
func detectStopHunt(candles []types.Bar, direction types.Direction) Result {
	recent := candles[len(candles)-stopHuntWindow:]

	for _, candle := range recent {
		body := math.Abs(candle.Close - candle.Open)
		if body == 0 {
			body = 0.0001
		}

		if direction == types.DirectionLong {
			lowerWick := math.Min(candle.Open, candle.Close) - candle.Low
			if lowerWick/body > stopHuntWickRatio {
				return fail(fmt.Sprintf("stop hunt: lower wick %.1fx body", lowerWick/body))
			}
		} else {
			upperWick := candle.High - math.Max(candle.Open, candle.Close)
			if upperWick/body > stopHuntWickRatio {
				return fail(fmt.Sprintf("stop hunt: upper wick %.1fx body", upperWick/body))
			}
		}
	}

	return pass("no stop hunts")
}

// detectLowLiquiditySpike blocks entries on bars whose volume collapsed
// relative to the recent average; moves on no volume rarely follow through.
func detectLowLiquiditySpike(candles []types.Bar, volume types.VolumeSnapshot) Result {
	if !volume.Valid || volume.Average <= 0 {
		return pass("no volume data, allowed")
	}

	if volume.Ratio < lowLiquidityRatio {
		return fail(fmt.Sprintf("low liquidity: volume at %.2fx average", volume.Ratio))
	}

	return pass("liquidity OK")
}
