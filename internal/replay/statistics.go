package replay

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/signal-replay/internal/types"
	"github.com/rxtech-lab/signal-replay/internal/version"
	"github.com/shopspring/decimal"
)

// BuildResult aggregates the finished run into a ReplayResult. It is a pure
// function of the ledger, the closed trades and the rejected signals:
// calling it again over the same inputs yields identical statistics. Only
// the executed trades feed the performance metrics; rejected signals appear
// in AllTrades for diagnostics.
func BuildResult(
	config *SimulationConfig,
	ledger *Ledger,
	trades []types.Position,
	rejected []types.Position,
	startTime, endTime time.Time,
) types.ReplayResult {
	result := types.ReplayResult{
		ID:            uuid.New().String(),
		EngineVersion: version.GetVersion(),
		Timestamp:     time.Now().UTC(),
		Symbol:        config.Symbol,
		Summary: types.Summary{
			InitialCapital: ledger.InitialCapital(),
			FinalCapital:   ledger.CurrentCapital(),
			TotalPnL:       ledger.CurrentCapital() - ledger.InitialCapital(),
			MaxDrawdownPct: ledger.MaxDrawdown() * 100,
			StartTime:      startTime,
			EndTime:        endTime,
		},
		Signals: types.SignalStats{
			TotalSignals:      ledger.totalSignals,
			PassedFilters:     ledger.signalsPassed,
			Rejected:          ledger.signalsRejected,
			DegenerateSignals: ledger.degenerateSignals,
			ComponentErrors:   ledger.componentErrors,
		},
		Trades: types.TradeCounts{
			TotalTrades: len(trades),
			Wins:        ledger.wins,
			Losses:      ledger.losses,
			Breakevens:  ledger.breakevens,
		},
		FilterRejections: copyCounts(ledger.filterRejections),
		ByStrategy:       make(map[string]types.GroupStats),
		ByDirection:      make(map[string]types.GroupStats),
		AllTrades:        append(append([]types.Position{}, trades...), rejected...),
	}

	if ledger.InitialCapital() > 0 {
		result.Summary.TotalReturnPct = result.Summary.TotalPnL / ledger.InitialCapital() * 100
	}
	if ledger.totalSignals > 0 {
		result.Signals.FilterPassRate = float64(ledger.signalsPassed) / float64(ledger.totalSignals) * 100
	}
	if len(trades) > 0 {
		result.Trades.WinRate = float64(ledger.wins) / float64(len(trades)) * 100
	}

	result.Performance = buildPerformance(trades)

	for _, trade := range trades {
		accumulateGroup(result.ByStrategy, trade.Strategy, trade)
		accumulateGroup(result.ByDirection, string(trade.Direction), trade)
	}

	return result
}

func buildPerformance(trades []types.Position) types.Performance {
	var perf types.Performance
	if len(trades) == 0 {
		return perf
	}

	var (
		winSum, winPctSum, lossSum, lossPctSum decimal.Decimal
		winCount, lossCount                    int
		barsSum, mfeSum, maeSum                float64
	)

	for _, trade := range trades {
		pnl := decimal.NewFromFloat(trade.PnLDollar)
		switch {
		case trade.PnLDollar > 0:
			winCount++
			winSum = winSum.Add(pnl)
			winPctSum = winPctSum.Add(decimal.NewFromFloat(trade.PnLPercent))
			if trade.PnLDollar > perf.LargestWin {
				perf.LargestWin = trade.PnLDollar
			}
		case trade.PnLDollar < 0:
			lossCount++
			lossSum = lossSum.Add(pnl)
			lossPctSum = lossPctSum.Add(decimal.NewFromFloat(trade.PnLPercent))
			if trade.PnLDollar < perf.LargestLoss {
				perf.LargestLoss = trade.PnLDollar
			}
		}
		barsSum += float64(trade.BarsHeld)
		mfeSum += trade.MaxFavorableExcursion
		maeSum += trade.MaxAdverseExcursion
	}

	if winCount > 0 {
		perf.AvgWin, _ = winSum.Div(decimal.NewFromInt(int64(winCount))).Float64()
		perf.AvgWinPct, _ = winPctSum.Div(decimal.NewFromInt(int64(winCount))).Float64()
	}
	if lossCount > 0 {
		perf.AvgLoss, _ = lossSum.Div(decimal.NewFromInt(int64(lossCount))).Float64()
		perf.AvgLossPct, _ = lossPctSum.Div(decimal.NewFromInt(int64(lossCount))).Float64()
	}
	if !lossSum.IsZero() {
		pf, _ := winSum.Div(lossSum.Abs()).Float64()
		perf.ProfitFactor = pf
	}

	total := decimal.NewFromInt(int64(len(trades)))
	perf.Expectancy, _ = winSum.Add(lossSum).Div(total).Float64()
	perf.AvgBarsHeld = barsSum / float64(len(trades))
	perf.AvgMFE = mfeSum / float64(len(trades))
	perf.AvgMAE = maeSum / float64(len(trades))

	return perf
}

func accumulateGroup(groups map[string]types.GroupStats, key string, trade types.Position) {
	stats := groups[key]
	stats.Trades++
	if trade.PnLDollar > 0 {
		stats.Wins++
	}
	stats.TotalPnL += trade.PnLDollar
	if stats.Trades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Trades) * 100
	}
	groups[key] = stats
}

// decimalSum totals trade PnL with the same decimal arithmetic the ledger
// uses, so conservation checks compare exactly.
func decimalSum(trades []types.Position) decimal.Decimal {
	var total decimal.Decimal
	for _, trade := range trades {
		total = total.Add(decimal.NewFromFloat(trade.PnLDollar))
	}
	return total
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
