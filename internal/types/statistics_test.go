package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
	tempDir string
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "statistics_test")
	suite.NoError(err)
	suite.tempDir = tempDir
}

func (suite *StatisticsTestSuite) TearDownTest() {
	os.RemoveAll(suite.tempDir)
}

func (suite *StatisticsTestSuite) TestWriteResult() {
	result := ReplayResult{
		ID:            "run-1",
		EngineVersion: "v0.3.0",
		Timestamp:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Symbol:        "SOL-USDT",
		Summary: Summary{
			InitialCapital: 10000,
			FinalCapital:   11250,
			TotalPnL:       1250,
			TotalReturnPct: 12.5,
			MaxDrawdownPct: 4.2,
		},
		Signals: SignalStats{
			TotalSignals:   40,
			PassedFilters:  25,
			Rejected:       15,
			FilterPassRate: 62.5,
		},
		Trades: TradeCounts{
			TotalTrades: 25,
			Wins:        14,
			Losses:      9,
			Breakevens:  2,
			WinRate:     56,
		},
		FilterRejections: map[string]int{"market_regime": 9, "multi_timeframe": 6},
		ByStrategy: map[string]GroupStats{
			"trend_following": {Trades: 25, Wins: 14, WinRate: 56, TotalPnL: 1250},
		},
	}

	filePath := filepath.Join(suite.tempDir, "result.yaml")
	err := WriteResult(filePath, result)
	suite.NoError(err)

	data, err := os.ReadFile(filePath)
	suite.NoError(err)

	var readResult ReplayResult
	err = yaml.Unmarshal(data, &readResult)
	suite.NoError(err)

	suite.Equal("run-1", readResult.ID)
	suite.Equal("SOL-USDT", readResult.Symbol)
	suite.Equal(10000.0, readResult.Summary.InitialCapital)
	suite.Equal(11250.0, readResult.Summary.FinalCapital)
	suite.Equal(40, readResult.Signals.TotalSignals)
	suite.Equal(25, readResult.Trades.TotalTrades)
	suite.Equal(9, readResult.FilterRejections["market_regime"])
	suite.Equal(56.0, readResult.ByStrategy["trend_following"].WinRate)
}

func (suite *StatisticsTestSuite) TestWriteResultInvalidPath() {
	err := WriteResult(filepath.Join(suite.tempDir, "missing", "result.yaml"), ReplayResult{})
	suite.Error(err)
}
