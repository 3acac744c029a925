// Package filter ships the risk filters that vet a signal before it is
// sized and executed. Filters are advisory in isolation; the Chain turns
// their individual results into one verdict.
package filter

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/types"
)

// Result is one filter's opinion of a proposed trade. SizeMultiplier lets a
// filter pass a trade at reduced size instead of blocking it outright.
type Result struct {
	Passed         bool
	Reason         string
	SizeMultiplier float64
}

func pass(reason string) Result {
	return Result{Passed: true, Reason: reason, SizeMultiplier: 1.0}
}

func reduced(reason string, multiplier float64) Result {
	return Result{Passed: true, Reason: reason, SizeMultiplier: multiplier}
}

func fail(reason string) Result {
	return Result{Passed: false, Reason: reason, SizeMultiplier: 1.0}
}

// Filter vets one aspect of a proposed trade. Check must not mutate the
// market state.
type Filter interface {
	Name() string
	Check(
		state *types.MarketState,
		direction types.Direction,
		reference optional.Option[*types.MarketState],
	) Result
}

// Chain runs filters in registration order and aggregates their results
// into a single verdict. It always runs every filter so rejection counts
// attribute each failure to every filter that flagged it, not only the
// first.
type Chain struct {
	filters []Filter
}

func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// DefaultChain wires the production filter set.
func DefaultChain() *Chain {
	return NewChain(
		NewMarketRegime(),
		NewMultiTimeframe(),
		NewPatternFailure(),
		NewReferenceCorrelation(),
	)
}

func (c *Chain) CheckAll(
	state *types.MarketState,
	direction types.Direction,
	strategyID string,
	reference optional.Option[*types.MarketState],
) (types.FilterVerdict, error) {
	verdict := types.PassedVerdict()

	for _, f := range c.filters {
		result := f.Check(state, direction, reference)
		verdict.Diagnostics[f.Name()] = result.Reason

		if !result.Passed {
			verdict.Passed = false
			verdict.FailedFilters = append(verdict.FailedFilters, f.Name())
			continue
		}
		if result.SizeMultiplier < 1.0 {
			verdict.PositionSizeMultiplier *= result.SizeMultiplier
		}
	}

	return verdict, nil
}
