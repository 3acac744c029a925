package indicator

import (
	"math"

	"github.com/rxtech-lab/signal-replay/pkg/errors"
)

// BollingerBands holds one set of band levels.
type BollingerBands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger calculates the band levels over the last period closes with the
// given standard-deviation multiplier.
func Bollinger(closes []float64, period int, stdDevMult float64) (BollingerBands, error) {
	if len(closes) < period {
		return BollingerBands{}, errors.NewInsufficientDataError(period, len(closes), "",
			"not enough closes for Bollinger bands")
	}

	window := closes[len(closes)-period:]
	middle := SMA(window, period)

	var squareSum float64
	for _, c := range window {
		diff := c - middle
		squareSum += diff * diff
	}

	stdDev := math.Sqrt(squareSum / float64(period))

	return BollingerBands{
		Upper:  middle + stdDevMult*stdDev,
		Middle: middle,
		Lower:  middle - stdDevMult*stdDev,
	}, nil
}

// PricePosition returns where price sits between the bands: 0 at the lower
// band, 1 at the upper, clamped outside that range.
func (b BollingerBands) PricePosition(price float64) float64 {
	width := b.Upper - b.Lower
	if width <= 0 {
		return 0.5
	}

	pos := (price - b.Lower) / width

	return math.Max(0, math.Min(1, pos))
}
