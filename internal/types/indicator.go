package types

// IndicatorSet is the fixed-shape indicator snapshot attached to every
// timeframe slice. Consumers read struct fields instead of probing nested
// maps, so a missing value is always an explicit zero plus Valid=false on
// the group, never a lookup failure.
type IndicatorSet struct {
	ATR       ATRSnapshot
	Trend     TrendSnapshot
	Momentum  MomentumSnapshot
	Bollinger BollingerSnapshot
	Volume    VolumeSnapshot
}

// ATRSnapshot carries the Average True Range state for one window.
type ATRSnapshot struct {
	Valid bool
	// Value is the most recent ATR reading.
	Value float64
	// Previous is the reading one bar earlier, equal to Value when the
	// series has a single element.
	Previous float64
	// Percentile is the rank of Value within the window's ATR series, 0-100.
	Percentile float64
	// Compressed reports whether recent volatility sits in the bottom of
	// its range, the precondition breakout setups look for.
	Compressed bool
}

// TrendSnapshot summarizes EMA-based trend state.
type TrendSnapshot struct {
	Valid bool
	// Direction is TrendUp or TrendDown.
	Direction TrendDirection
	// Strength is the normalized EMA separation, 0-1.
	Strength float64
	EMAFast  float64
	EMASlow  float64
}

// TrendDirection labels the sign of the fast/slow EMA separation.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
)

// MomentumSnapshot carries oscillator readings.
type MomentumSnapshot struct {
	Valid bool
	RSI   float64
}

// BollingerSnapshot carries the Bollinger band levels and where the last
// close sits within them (0 = lower band, 1 = upper band).
type BollingerSnapshot struct {
	Valid    bool
	Upper    float64
	Middle   float64
	Lower    float64
	Position float64
}

// VolumeSnapshot compares the latest volume against its recent average.
type VolumeSnapshot struct {
	Valid   bool
	Current float64
	Average float64
	Ratio   float64
}
