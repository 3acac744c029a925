package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalValidate(t *testing.T) {
	base := Signal{
		Time:        time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Direction:   DirectionLong,
		EntryPrice:  100,
		StopPrice:   98,
		TargetPrice: 106,
		StrategyID:  "trend_following",
	}

	tests := []struct {
		name    string
		mutate  func(s *Signal)
		wantErr bool
	}{
		{
			name:    "valid long",
			mutate:  func(s *Signal) {},
			wantErr: false,
		},
		{
			name:    "valid short",
			mutate:  func(s *Signal) { s.Direction = DirectionShort },
			wantErr: false,
		},
		{
			name:    "unknown direction",
			mutate:  func(s *Signal) { s.Direction = "sideways" },
			wantErr: true,
		},
		{
			name:    "zero entry price",
			mutate:  func(s *Signal) { s.EntryPrice = 0 },
			wantErr: true,
		},
		{
			name:    "negative target",
			mutate:  func(s *Signal) { s.TargetPrice = -5 },
			wantErr: true,
		},
		{
			name:    "missing strategy id",
			mutate:  func(s *Signal) { s.StrategyID = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := base
			tt.mutate(&signal)

			err := signal.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPassedVerdict(t *testing.T) {
	verdict := PassedVerdict()

	assert.True(t, verdict.Passed)
	assert.Equal(t, 1.0, verdict.PositionSizeMultiplier)
	assert.Empty(t, verdict.FailedFilters)
	assert.NotNil(t, verdict.Diagnostics)
}
