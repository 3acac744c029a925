package replay

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/pkg/errors"
	"github.com/shopspring/decimal"
)

// Ledger is the single mutable accounting record of a replay run. Capital
// is tracked with decimal arithmetic so that summing trade PnL always
// reconciles exactly against final capital.
type Ledger struct {
	initialCapital decimal.Decimal
	currentCapital decimal.Decimal
	peakCapital    decimal.Decimal
	maxDrawdown    decimal.Decimal

	totalSignals      int
	signalsPassed     int
	signalsRejected   int
	degenerateSignals int
	componentErrors   int
	tradesExecuted    int
	wins              int
	losses            int
	breakevens        int

	filterRejections map[string]int
	dailyTradeCounts map[string]int
	lastTradeTime    optional.Option[time.Time]
}

func NewLedger(initialCapital float64) *Ledger {
	capital := decimal.NewFromFloat(initialCapital)
	return &Ledger{
		initialCapital:   capital,
		currentCapital:   capital,
		peakCapital:      capital,
		filterRejections: make(map[string]int),
		dailyTradeCounts: make(map[string]int),
	}
}

func (l *Ledger) InitialCapital() float64 {
	v, _ := l.initialCapital.Float64()
	return v
}

func (l *Ledger) CurrentCapital() float64 {
	v, _ := l.currentCapital.Float64()
	return v
}

// MaxDrawdown returns the largest observed peak-to-trough equity decline
// as a fraction of the peak.
func (l *Ledger) MaxDrawdown() float64 {
	v, _ := l.maxDrawdown.Float64()
	return v
}

func (l *Ledger) RecordSignal() {
	l.totalSignals++
}

func (l *Ledger) RecordPassed() {
	l.signalsPassed++
}

// RecordRejected counts a filtered-out signal and attributes the rejection
// to every filter that failed.
func (l *Ledger) RecordRejected(failedFilters []string) {
	l.signalsRejected++
	for _, name := range failedFilters {
		l.filterRejections[name]++
	}
}

func (l *Ledger) RecordDegenerate() {
	l.degenerateSignals++
}

func (l *Ledger) RecordComponentError() {
	l.componentErrors++
}

// CanTrade applies the admission gates that run before any strategy is
// consulted: the per-day trade cap and the minimum spacing between entries.
func (l *Ledger) CanTrade(t time.Time, config *SimulationConfig) bool {
	day := t.Format("2006-01-02")
	if l.dailyTradeCounts[day] >= config.MaxDailyTrades {
		return false
	}
	if last, err := l.lastTradeTime.Take(); err == nil {
		if t.Sub(last) < config.TradeInterval() {
			return false
		}
	}
	return true
}

// RecordTradeOpened updates the gate state after an entry fill.
func (l *Ledger) RecordTradeOpened(t time.Time) {
	l.tradesExecuted++
	l.dailyTradeCounts[t.Format("2006-01-02")]++
	l.lastTradeTime = optional.Some(t)
}

// ApplyClose settles a closed trade against capital and classifies the
// outcome. A trade whose absolute PnL stays within the breakeven band
// (a fraction of the actual entry price) counts as neither win nor loss.
func (l *Ledger) ApplyClose(pnlDollar, entryPrice float64, config *SimulationConfig) {
	l.currentCapital = l.currentCapital.Add(decimal.NewFromFloat(pnlDollar))

	if l.currentCapital.GreaterThan(l.peakCapital) {
		l.peakCapital = l.currentCapital
	}
	if l.peakCapital.IsPositive() {
		drawdown := l.peakCapital.Sub(l.currentCapital).Div(l.peakCapital)
		if drawdown.GreaterThan(l.maxDrawdown) {
			l.maxDrawdown = drawdown
		}
	}

	band := entryPrice * config.BreakevenFraction
	switch {
	case pnlDollar > band:
		l.wins++
	case pnlDollar < -band:
		l.losses++
	default:
		l.breakevens++
	}
}

// CheckConservation verifies that initial capital plus the summed PnL of
// all closed trades equals final capital. A mismatch means the accounting
// itself is broken and the run must abort.
func (l *Ledger) CheckConservation(totalPnL decimal.Decimal) error {
	expected := l.initialCapital.Add(totalPnL)
	if !expected.Equal(l.currentCapital) {
		return errors.Newf(errors.ErrCodeInvariantViolation,
			"capital conservation violated: initial %s + pnl %s = %s, ledger has %s",
			l.initialCapital, totalPnL, expected, l.currentCapital)
	}
	return nil
}
