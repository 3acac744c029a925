package indicator

import (
	"math"

	"github.com/rxtech-lab/signal-replay/internal/types"
)

const (
	trendFastPeriod = 20
	trendSlowPeriod = 50
)

// Trend derives trend direction and normalized strength from the separation
// of a fast and slow EMA over the closes. Valid=false when the window is too
// short for the slow EMA.
func Trend(closes []float64) types.TrendSnapshot {
	fast := EMA(closes, trendFastPeriod)
	slow := EMA(closes, trendSlowPeriod)

	if len(fast) == 0 || len(slow) == 0 {
		return types.TrendSnapshot{}
	}

	emaFast := fast[len(fast)-1]
	emaSlow := slow[len(slow)-1]

	direction := types.TrendDown
	if emaFast > emaSlow {
		direction = types.TrendUp
	}

	strength := 0.0
	if emaSlow != 0 {
		// Normalize the relative separation to 0-1; a 10% gap saturates.
		strength = math.Min(math.Abs(emaFast-emaSlow)/emaSlow*10, 1.0)
	}

	return types.TrendSnapshot{
		Valid:     true,
		Direction: direction,
		Strength:  strength,
		EMAFast:   emaFast,
		EMASlow:   emaSlow,
	}
}
