package indicator

import "math"

// ATRSeries calculates the Average True Range series with Wilder smoothing
// (alpha = 1/period). The first element is the mean true range over the
// initial period. Returns nil when there are fewer than period+1 bars.
func ATRSeries(highs, lows, closes []float64, period int) []float64 {
	if period <= 0 || len(highs) < period+1 {
		return nil
	}

	trueRange := make([]float64, len(highs))
	trueRange[0] = highs[0] - lows[0]

	for i := 1; i < len(highs); i++ {
		highLow := highs[i] - lows[i]
		highClose := math.Abs(highs[i] - closes[i-1])
		lowClose := math.Abs(lows[i] - closes[i-1])
		trueRange[i] = math.Max(highLow, math.Max(highClose, lowClose))
	}

	atr := make([]float64, 0, len(highs)-period+1)

	var seed float64
	for _, tr := range trueRange[:period] {
		seed += tr
	}

	atr = append(atr, seed/float64(period))

	alpha := 1.0 / float64(period)
	for i := period; i < len(trueRange); i++ {
		next := alpha*trueRange[i] + (1-alpha)*atr[len(atr)-1]
		atr = append(atr, next)
	}

	return atr
}

// ATRPercentile returns the percentile rank (0-100) of current within the
// given ATR series. An empty series ranks at 50.
func ATRPercentile(current float64, series []float64) float64 {
	if len(series) == 0 {
		return 50
	}

	below := 0

	for _, v := range series {
		if v < current {
			below++
		}
	}

	return float64(below) / float64(len(series)) * 100
}

// IsVolatilityCompressed reports whether the latest ATR sits below the
// threshold fraction of its 20-reading maximum. Compression often precedes
// breakouts.
func IsVolatilityCompressed(series []float64, threshold float64) bool {
	const window = 20

	if len(series) < window {
		return false
	}

	current := series[len(series)-1]

	var recentMax float64
	for _, v := range series[len(series)-window:] {
		recentMax = math.Max(recentMax, v)
	}

	if recentMax <= 0 {
		return false
	}

	return current/recentMax < threshold
}
