package indicator

import (
	"testing"
	"time"

	"github.com/rxtech-lab/signal-replay/internal/types"
	"github.com/rxtech-lab/signal-replay/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantSeries(value float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = value
	}

	return s
}

func TestEMA(t *testing.T) {
	t.Run("too short returns nil", func(t *testing.T) {
		assert.Nil(t, EMA([]float64{1, 2, 3}, 5))
	})

	t.Run("constant series stays constant", func(t *testing.T) {
		ema := EMA(constantSeries(42, 30), 10)
		require.Len(t, ema, 21)

		for _, v := range ema {
			assert.InDelta(t, 42, v, 1e-9)
		}
	})

	t.Run("seed is the initial SMA", func(t *testing.T) {
		ema := EMA([]float64{1, 2, 3, 4}, 4)
		require.Len(t, ema, 1)
		assert.InDelta(t, 2.5, ema[0], 1e-9)
	})

	t.Run("moves toward new values", func(t *testing.T) {
		values := append(constantSeries(10, 20), 20)
		ema := EMA(values, 20)
		require.Len(t, ema, 2)
		assert.Greater(t, ema[1], ema[0])
		assert.Less(t, ema[1], 20.0)
	})
}

func TestSMA(t *testing.T) {
	assert.Zero(t, SMA([]float64{1, 2}, 5))
	assert.InDelta(t, 3, SMA([]float64{1, 2, 3, 4, 5}, 5), 1e-9)
	// Only the trailing window counts.
	assert.InDelta(t, 4.5, SMA([]float64{1, 2, 3, 4, 5}, 2), 1e-9)
}

func TestRSI(t *testing.T) {
	t.Run("insufficient data", func(t *testing.T) {
		_, err := RSI(constantSeries(10, 10), 14)
		require.Error(t, err)
		assert.True(t, errors.IsInsufficientDataError(err))
	})

	t.Run("all gains reads 100", func(t *testing.T) {
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}

		rsi, err := RSI(closes, 14)
		require.NoError(t, err)
		assert.InDelta(t, 100, rsi, 1e-9)
	})

	t.Run("all losses reads 0", func(t *testing.T) {
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 200 - float64(i)
		}

		rsi, err := RSI(closes, 14)
		require.NoError(t, err)
		assert.InDelta(t, 0, rsi, 1e-9)
	})

	t.Run("balanced moves read near 50", func(t *testing.T) {
		closes := make([]float64, 31)
		for i := range closes {
			closes[i] = 100
			if i%2 == 1 {
				closes[i] = 101
			}
		}

		rsi, err := RSI(closes, 14)
		require.NoError(t, err)
		assert.InDelta(t, 50, rsi, 5)
	})
}

func TestATRSeries(t *testing.T) {
	t.Run("too short returns nil", func(t *testing.T) {
		highs := constantSeries(10, 14)
		assert.Nil(t, ATRSeries(highs, highs, highs, 14))
	})

	t.Run("constant range yields constant ATR", func(t *testing.T) {
		n := 40
		highs := constantSeries(102, n)
		lows := constantSeries(100, n)
		closes := constantSeries(101, n)

		series := ATRSeries(highs, lows, closes, 14)
		require.NotEmpty(t, series)

		for _, v := range series {
			assert.InDelta(t, 2, v, 1e-9)
		}
	})
}

func TestATRPercentile(t *testing.T) {
	assert.Equal(t, 50.0, ATRPercentile(1, nil))

	series := []float64{1, 2, 3, 4}
	assert.Equal(t, 75.0, ATRPercentile(3.5, series))
	assert.Equal(t, 0.0, ATRPercentile(0.5, series))
	assert.Equal(t, 100.0, ATRPercentile(10, series))
}

func TestIsVolatilityCompressed(t *testing.T) {
	t.Run("short series never compressed", func(t *testing.T) {
		assert.False(t, IsVolatilityCompressed(constantSeries(1, 10), 0.7))
	})

	t.Run("falling volatility compresses", func(t *testing.T) {
		series := constantSeries(10, 19)
		series = append(series, 1) // current ATR well below recent max
		assert.True(t, IsVolatilityCompressed(series, 0.7))
	})

	t.Run("steady volatility not compressed", func(t *testing.T) {
		assert.False(t, IsVolatilityCompressed(constantSeries(10, 25), 0.7))
	})
}

func TestBollinger(t *testing.T) {
	t.Run("insufficient data", func(t *testing.T) {
		_, err := Bollinger(constantSeries(10, 5), 20, 2)
		assert.Error(t, err)
	})

	t.Run("constant closes collapse the bands", func(t *testing.T) {
		bands, err := Bollinger(constantSeries(100, 25), 20, 2)
		require.NoError(t, err)
		assert.InDelta(t, 100, bands.Upper, 1e-9)
		assert.InDelta(t, 100, bands.Middle, 1e-9)
		assert.InDelta(t, 100, bands.Lower, 1e-9)
		// Zero-width bands report a neutral position.
		assert.Equal(t, 0.5, bands.PricePosition(100))
	})

	t.Run("position clamps to band range", func(t *testing.T) {
		bands := BollingerBands{Upper: 110, Middle: 100, Lower: 90}
		assert.Equal(t, 0.0, bands.PricePosition(80))
		assert.Equal(t, 1.0, bands.PricePosition(120))
		assert.InDelta(t, 0.5, bands.PricePosition(100), 1e-9)
	})
}

func TestTrend(t *testing.T) {
	t.Run("too short is invalid", func(t *testing.T) {
		snap := Trend(constantSeries(100, 30))
		assert.False(t, snap.Valid)
	})

	t.Run("rising closes trend up", func(t *testing.T) {
		closes := make([]float64, 80)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}

		snap := Trend(closes)
		require.True(t, snap.Valid)
		assert.Equal(t, types.TrendUp, snap.Direction)
		assert.Greater(t, snap.Strength, 0.0)
		assert.Greater(t, snap.EMAFast, snap.EMASlow)
	})

	t.Run("falling closes trend down", func(t *testing.T) {
		closes := make([]float64, 80)
		for i := range closes {
			closes[i] = 500 - float64(i)
		}

		snap := Trend(closes)
		require.True(t, snap.Valid)
		assert.Equal(t, types.TrendDown, snap.Direction)
	})
}

func TestSnapshot(t *testing.T) {
	makeBars := func(n int) []types.Bar {
		bars := make([]types.Bar, n)
		base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

		for i := range bars {
			price := 100 + float64(i)*0.1
			bars[i] = types.Bar{
				Time:   base.Add(time.Duration(i) * 15 * time.Minute),
				Open:   price,
				High:   price + 1,
				Low:    price - 1,
				Close:  price + 0.5,
				Volume: 1000,
			}
		}

		return bars
	}

	t.Run("short window leaves groups invalid", func(t *testing.T) {
		set := Snapshot(makeBars(10))
		assert.False(t, set.ATR.Valid)
		assert.False(t, set.Trend.Valid)
		assert.False(t, set.Momentum.Valid)
		assert.False(t, set.Bollinger.Valid)
		assert.False(t, set.Volume.Valid)
	})

	t.Run("full window populates every group", func(t *testing.T) {
		set := Snapshot(makeBars(120))
		assert.True(t, set.ATR.Valid)
		assert.True(t, set.Trend.Valid)
		assert.True(t, set.Momentum.Valid)
		assert.True(t, set.Bollinger.Valid)
		assert.True(t, set.Volume.Valid)

		assert.Greater(t, set.ATR.Value, 0.0)
		assert.Equal(t, types.TrendUp, set.Trend.Direction)
		assert.InDelta(t, 1.0, set.Volume.Ratio, 1e-9)
	})
}
