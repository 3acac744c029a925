package filter

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/types"
)

const (
	htfMinStrength = 0.3
	mtfMinStrength = 0.25
	ltfMinStrength = 0.2
)

// MultiTimeframe requires the trend on the higher, medium and lower
// timeframes to agree with the signal direction. A missing higher timeframe
// is tolerated, the two lower ones are mandatory.
type MultiTimeframe struct {
	higher types.Timeframe
	medium types.Timeframe
	lower  types.Timeframe
}

func NewMultiTimeframe() *MultiTimeframe {
	return &MultiTimeframe{
		higher: types.Timeframe4H,
		medium: types.Timeframe15m,
		lower:  types.Timeframe5m,
	}
}

func (f *MultiTimeframe) Name() string {
	return "multi_timeframe"
}

func (f *MultiTimeframe) Check(state *types.MarketState, direction types.Direction, reference optional.Option[*types.MarketState]) Result {
	if snapshot, ok := state.Snapshot(f.higher); ok {
		if result := checkTrendAgrees(snapshot, direction, htfMinStrength, string(f.higher)); !result.Passed {
			return result
		}
	}

	medium, ok := state.Snapshot(f.medium)
	if !ok {
		return fail(fmt.Sprintf("no %s trend data", f.medium))
	}
	if result := checkTrendAgrees(medium, direction, mtfMinStrength, string(f.medium)); !result.Passed {
		return result
	}

	lower, ok := state.Snapshot(f.lower)
	if !ok {
		return fail(fmt.Sprintf("no %s trend data", f.lower))
	}
	if result := checkTrendAgrees(lower, direction, ltfMinStrength, string(f.lower)); !result.Passed {
		return result
	}

	return pass("timeframes aligned with signal direction")
}

func checkTrendAgrees(snapshot types.TimeframeSnapshot, direction types.Direction, minStrength float64, label string) Result {
	trend := snapshot.Indicators.Trend
	if !trend.Valid {
		return fail(fmt.Sprintf("%s trend not computable", label))
	}

	wanted := types.TrendUp
	if direction == types.DirectionShort {
		wanted = types.TrendDown
	}

	if trend.Direction != wanted {
		return fail(fmt.Sprintf("%s trend is %s, signal wants %s", label, trend.Direction, direction))
	}
	if trend.Strength < minStrength {
		return fail(fmt.Sprintf("%s trend too weak (%.2f < %.2f)", label, trend.Strength, minStrength))
	}

	return pass(fmt.Sprintf("%s trend agrees", label))
}
