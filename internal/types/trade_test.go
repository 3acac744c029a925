package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSignalID(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)
	assert.Equal(t, "mean_reversion_20240301_101500", NewSignalID("mean_reversion", ts))
}

func TestPositionClosed(t *testing.T) {
	p := Position{}
	assert.False(t, p.Closed())

	p.ExitReason = ExitReasonStop
	assert.True(t, p.Closed())
}

func TestPositionRisk(t *testing.T) {
	long := Position{ActualEntryPrice: 100.02, StopPrice: 98}
	assert.InDelta(t, 2.02, long.Risk(), 1e-9)

	short := Position{ActualEntryPrice: 99.98, StopPrice: 102}
	assert.InDelta(t, 2.02, short.Risk(), 1e-9)

	degenerate := Position{ActualEntryPrice: 100, StopPrice: 100}
	assert.Zero(t, degenerate.Risk())
}
