package indicator

// EMA calculates an Exponential Moving Average series. The first element is
// the SMA seed over the initial period; returns nil when there are fewer
// values than the period.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	ema := make([]float64, 0, len(values)-period+1)

	// Initial SMA seed
	var sum float64
	for _, v := range values[:period] {
		sum += v
	}

	ema = append(ema, sum/float64(period))

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		next := (values[i]-ema[len(ema)-1])*multiplier + ema[len(ema)-1]
		ema = append(ema, next)
	}

	return ema
}

// SMA calculates the simple average of the last period values. Returns zero
// when there are fewer values than the period.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}

	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}

	return sum / float64(period)
}
