package types

import "time"

// Timeframe identifies one candle interval series (e.g. "15m", "1H").
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1H  Timeframe = "1H"
	Timeframe4H  Timeframe = "4H"
)

// Bar is a single OHLCV observation for a fixed time interval.
type Bar struct {
	Time   time.Time `csv:"time" yaml:"time"`
	Open   float64   `csv:"open" yaml:"open"`
	High   float64   `csv:"high" yaml:"high"`
	Low    float64   `csv:"low" yaml:"low"`
	Close  float64   `csv:"close" yaml:"close"`
	Volume float64   `csv:"volume" yaml:"volume"`
}

// TimeframeSnapshot is the per-timeframe view a strategy is allowed to see:
// a bounded candle window (most-recent-last) plus the indicator set computed
// over that window.
type TimeframeSnapshot struct {
	Candles      []Bar
	CurrentPrice float64
	Indicators   IndicatorSet
}

// MarketState is the read-only view of the market at one replay timestamp.
// Every candle in every timeframe satisfies candle.Time <= state.Time; the
// builder never includes data from a bar the live system would not have
// seen yet.
type MarketState struct {
	Symbol     string
	Time       time.Time
	Timeframes map[Timeframe]TimeframeSnapshot
}

// Snapshot returns the snapshot for a timeframe and whether it exists.
func (s *MarketState) Snapshot(tf Timeframe) (TimeframeSnapshot, bool) {
	snap, ok := s.Timeframes[tf]

	return snap, ok
}

// CurrentPrice returns the latest close on the given timeframe, or zero when
// the timeframe is absent.
func (s *MarketState) CurrentPrice(tf Timeframe) float64 {
	snap, ok := s.Timeframes[tf]
	if !ok {
		return 0
	}

	return snap.CurrentPrice
}
