package filter

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/types"
)

// ReferenceCorrelation vets a signal against a second instrument, the
// market's reference asset. A long against a reference in a strong
// downtrend is fighting the tide, and vice versa. Without a reference
// state the filter passes.
type ReferenceCorrelation struct {
	timeframes []types.Timeframe
	// maxOpposingStrength is how strong an opposing reference trend may be
	// before the trade is blocked.
	maxOpposingStrength float64
}

func NewReferenceCorrelation() *ReferenceCorrelation {
	return &ReferenceCorrelation{
		timeframes:          []types.Timeframe{types.Timeframe4H, types.Timeframe1H, types.Timeframe15m},
		maxOpposingStrength: 0.4,
	}
}

func (f *ReferenceCorrelation) Name() string {
	return "reference_correlation"
}

func (f *ReferenceCorrelation) Check(state *types.MarketState, direction types.Direction, reference optional.Option[*types.MarketState]) Result {
	referenceState, err := reference.Take()
	if err != nil {
		return pass("no reference instrument, allowed")
	}

	// Use the highest timeframe both instruments share.
	for _, timeframe := range f.timeframes {
		snapshot, ok := referenceState.Snapshot(timeframe)
		if !ok {
			continue
		}
		if _, ok := state.Snapshot(timeframe); !ok {
			continue
		}

		trend := snapshot.Indicators.Trend
		if !trend.Valid {
			return pass(fmt.Sprintf("reference %s trend not computable, allowed", timeframe))
		}

		opposing := types.TrendDown
		if direction == types.DirectionShort {
			opposing = types.TrendUp
		}

		if trend.Direction == opposing && trend.Strength >= f.maxOpposingStrength {
			return fail(fmt.Sprintf("reference %s trend %s (%.2f) opposes %s signal",
				timeframe, trend.Direction, trend.Strength, direction))
		}

		return pass(fmt.Sprintf("reference %s trend compatible", timeframe))
	}

	return pass("no shared timeframe with reference, allowed")
}
