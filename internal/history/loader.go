// Package history loads per-timeframe candle series from CSV files and
// normalizes them into the ordered, deduplicated form the replay engine
// assumes. The engine itself never validates ordering; everything that
// enters it goes through Normalize first.
package history

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/signal-replay/internal/types"
	"github.com/rxtech-lab/signal-replay/pkg/errors"
)

// Series is the per-instrument candle history keyed by timeframe.
type Series map[types.Timeframe][]types.Bar

// LoadFile reads one timeframe's candles from a CSV file with
// time,open,high,low,close,volume columns and normalizes them.
func LoadFile(path string) ([]types.Bar, error) {
	csvFile, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeHistoryLoadFailed, err, "failed to open %s", path)
	}
	defer csvFile.Close()

	var bars []types.Bar
	if err := gocsv.UnmarshalFile(csvFile, &bars); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeHistoryLoadFailed, err, "failed to parse %s", path)
	}

	return Normalize(bars), nil
}

// LoadDirectory reads every <timeframe>.csv in dir (e.g. 15m.csv, 1H.csv)
// into a Series. Files that are not CSV are ignored.
func LoadDirectory(dir string) (Series, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeHistoryLoadFailed, err, "failed to list %s", dir)
	}

	if len(paths) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no CSV files in %s", dir)
	}

	series := make(Series, len(paths))

	for _, path := range paths {
		tf := types.Timeframe(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		bars, err := LoadFile(path)
		if err != nil {
			return nil, err
		}

		series[tf] = bars
	}

	return series, nil
}

// Normalize sorts bars by ascending timestamp and drops duplicates, keeping
// the last occurrence of each timestamp (a re-delivered candle replaces the
// earlier copy).
func Normalize(bars []types.Bar) []types.Bar {
	if len(bars) == 0 {
		return bars
	}

	sorted := make([]types.Bar, len(bars))
	copy(sorted, bars)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	out := sorted[:0]

	for _, bar := range sorted {
		if len(out) > 0 && out[len(out)-1].Time.Equal(bar.Time) {
			out[len(out)-1] = bar

			continue
		}

		out = append(out, bar)
	}

	return out
}
