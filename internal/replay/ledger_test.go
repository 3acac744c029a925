package replay

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerTestSuite struct {
	suite.Suite
	config SimulationConfig
	ledger *Ledger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (suite *LedgerTestSuite) SetupTest() {
	suite.config = DefaultConfig("ETHUSDT", 10000)
	suite.ledger = NewLedger(10000)
}

func (suite *LedgerTestSuite) TestApplyCloseMovesCapital() {
	suite.ledger.ApplyClose(150, 2000, &suite.config)
	suite.InDelta(10150, suite.ledger.CurrentCapital(), 1e-9)

	suite.ledger.ApplyClose(-300, 2000, &suite.config)
	suite.InDelta(9850, suite.ledger.CurrentCapital(), 1e-9)

	// Peak was 10150, trough 9850.
	suite.InDelta(300.0/10150.0, suite.ledger.MaxDrawdown(), 1e-9)
}

func (suite *LedgerTestSuite) TestBreakevenBand() {
	// Band is 0.1% of a 2000 entry, so 2 dollars either side.
	suite.ledger.ApplyClose(1.5, 2000, &suite.config)
	suite.ledger.ApplyClose(-1.5, 2000, &suite.config)
	suite.ledger.ApplyClose(2.5, 2000, &suite.config)
	suite.ledger.ApplyClose(-2.5, 2000, &suite.config)

	suite.Equal(1, suite.ledger.wins)
	suite.Equal(1, suite.ledger.losses)
	suite.Equal(2, suite.ledger.breakevens)
}

func (suite *LedgerTestSuite) TestDailyTradeCap() {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.config.TradeIntervalMinutes = 0

	for i := 0; i < suite.config.MaxDailyTrades; i++ {
		t := day.Add(time.Duration(i) * time.Hour)
		suite.Require().True(suite.ledger.CanTrade(t, &suite.config))
		suite.ledger.RecordTradeOpened(t)
	}

	suite.False(suite.ledger.CanTrade(day.Add(23*time.Hour), &suite.config))
	suite.True(suite.ledger.CanTrade(day.Add(24*time.Hour), &suite.config), "cap resets on the next day")
}

func (suite *LedgerTestSuite) TestTradeIntervalGate() {
	t := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	suite.ledger.RecordTradeOpened(t)

	suite.False(suite.ledger.CanTrade(t.Add(15*time.Minute), &suite.config))
	suite.True(suite.ledger.CanTrade(t.Add(30*time.Minute), &suite.config))
}

func (suite *LedgerTestSuite) TestFilterRejectionAttribution() {
	suite.ledger.RecordRejected([]string{"market_regime", "multi_timeframe"})
	suite.ledger.RecordRejected([]string{"market_regime"})

	suite.Equal(2, suite.ledger.filterRejections["market_regime"])
	suite.Equal(1, suite.ledger.filterRejections["multi_timeframe"])
	suite.Equal(2, suite.ledger.signalsRejected)
}

func (suite *LedgerTestSuite) TestCheckConservation() {
	suite.ledger.ApplyClose(123.45, 2000, &suite.config)
	suite.ledger.ApplyClose(-23.45, 2000, &suite.config)

	total := decimal.NewFromFloat(123.45).Add(decimal.NewFromFloat(-23.45))
	suite.NoError(suite.ledger.CheckConservation(total))
	suite.Error(suite.ledger.CheckConservation(total.Add(decimal.NewFromInt(1))))
}
