package replay

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/types"
)

// ExitDecision is the resolved outcome of checking one bar against an open
// position: the raw exit price before slippage and the reason.
type ExitDecision struct {
	Price  float64
	Reason types.ExitReason
}

// PositionLifecycle advances an open position one bar at a time and settles
// it when an exit condition fires. Exit priority on a single bar is fixed:
// stop, then target, then timeout. When a bar touches both stop and target
// the stop wins, the pessimistic reading of intra-bar ambiguity.
type PositionLifecycle struct {
	config *SimulationConfig
}

func NewPositionLifecycle(config *SimulationConfig) *PositionLifecycle {
	return &PositionLifecycle{config: config}
}

// UpdateExcursions widens the position's max favorable and max adverse
// excursions against the bar's extremes. Both are measured as a fraction of
// the actual (slipped) entry price and only ever grow.
func (pl *PositionLifecycle) UpdateExcursions(p *types.Position, bar types.Bar) {
	var favorable, adverse float64
	if p.Direction == types.DirectionLong {
		favorable = (bar.High - p.ActualEntryPrice) / p.ActualEntryPrice
		adverse = (p.ActualEntryPrice - bar.Low) / p.ActualEntryPrice
	} else {
		favorable = (p.ActualEntryPrice - bar.Low) / p.ActualEntryPrice
		adverse = (bar.High - p.ActualEntryPrice) / p.ActualEntryPrice
	}

	if favorable > p.MaxFavorableExcursion {
		p.MaxFavorableExcursion = favorable
	}
	if adverse > p.MaxAdverseExcursion {
		p.MaxAdverseExcursion = adverse
	}
}

// CheckExit resolves whether the bar closes the position. Stop and target
// fills assume execution at the level itself; a timeout fills at the bar
// close once the position has been held for the configured maximum bars.
func (pl *PositionLifecycle) CheckExit(p *types.Position, bar types.Bar) optional.Option[ExitDecision] {
	if p.Direction == types.DirectionLong {
		if bar.Low <= p.StopPrice {
			return optional.Some(ExitDecision{Price: p.StopPrice, Reason: types.ExitReasonStop})
		}
		if bar.High >= p.TargetPrice {
			return optional.Some(ExitDecision{Price: p.TargetPrice, Reason: types.ExitReasonTarget})
		}
	} else {
		if bar.High >= p.StopPrice {
			return optional.Some(ExitDecision{Price: p.StopPrice, Reason: types.ExitReasonStop})
		}
		if bar.Low <= p.TargetPrice {
			return optional.Some(ExitDecision{Price: p.TargetPrice, Reason: types.ExitReasonTarget})
		}
	}

	if p.BarsHeld >= pl.config.MaxHoldBars {
		return optional.Some(ExitDecision{Price: bar.Close, Reason: types.ExitReasonTimeout})
	}

	return optional.None[ExitDecision]()
}

// Close settles the position at the decided exit, applying exit slippage
// against the trader, and fills in every terminal field.
func (pl *PositionLifecycle) Close(p *types.Position, decision ExitDecision, exitTime time.Time) {
	exitPrice := decision.Price * (1 - pl.config.SlippageFraction)
	if p.Direction == types.DirectionShort {
		exitPrice = decision.Price * (1 + pl.config.SlippageFraction)
	}

	points := exitPrice - p.ActualEntryPrice
	if p.Direction == types.DirectionShort {
		points = p.ActualEntryPrice - exitPrice
	}

	p.ExitTime = exitTime
	p.ExitPrice = exitPrice
	p.ExitReason = decision.Reason
	p.PnLPoints = points
	p.PnLPercent = points / p.ActualEntryPrice * 100
	p.PnLDollar = points * p.PositionSize
	p.Win = p.PnLDollar > 0
	if risk := p.Risk(); risk > 0 {
		p.RiskRewardAchieved = math.Abs(points) / risk
	}
}
