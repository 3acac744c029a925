package indicator

import (
	"github.com/rxtech-lab/signal-replay/pkg/errors"
)

// RSI calculates the Relative Strength Index over the last period closes,
// using simple averages of gains and losses.
func RSI(closes []float64, period int) (float64, error) {
	if len(closes) < period+1 {
		return 0, errors.NewInsufficientDataError(period+1, len(closes), "",
			"not enough closes for RSI")
	}

	var avgGain, avgLoss float64

	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs)), nil
}
