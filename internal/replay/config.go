package replay

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/types"
	"github.com/rxtech-lab/signal-replay/pkg/errors"
)

// SimulationConfig is the complete, explicit configuration of one replay
// run. It is passed once at construction and never read from ambient state,
// so the engine's behavior is a pure function of its inputs and multiple
// what-if runs can share a process.
type SimulationConfig struct {
	Symbol string `yaml:"symbol" json:"symbol" validate:"required" jsonschema:"title=Symbol,description=Instrument identifier for the primary replay series"`
	// ReferenceSymbol labels the optional second instrument whose state is
	// rebuilt each bar for cross-market filters.
	ReferenceSymbol string  `yaml:"reference_symbol" json:"reference_symbol" jsonschema:"title=Reference Symbol,description=Instrument identifier for the optional reference series"`
	InitialCapital  float64 `yaml:"initial_capital" json:"initial_capital" validate:"required,gt=0" jsonschema:"title=Initial Capital,description=Starting capital in USD,minimum=0"`
	// MaxRiskPerTrade is the fraction of current capital risked per trade.
	MaxRiskPerTrade float64 `yaml:"max_risk_per_trade" json:"max_risk_per_trade" validate:"gt=0,lte=0.02" jsonschema:"title=Max Risk Per Trade,description=Fraction of capital risked on one trade,maximum=0.02"`
	// SlippageFraction is applied against the trader on entry and exit.
	SlippageFraction float64 `yaml:"slippage_fraction" json:"slippage_fraction" validate:"gte=0" jsonschema:"title=Slippage Fraction,description=Fill slippage as a fraction of price (0.0002 = 2bps)"`
	// MaxHoldBars closes a position by timeout after this many bars.
	MaxHoldBars int `yaml:"max_hold_bars" json:"max_hold_bars" validate:"gt=0" jsonschema:"title=Max Hold Bars,description=Bars a position may stay open before timeout"`
	// MaxDailyTrades caps the trades opened per calendar day.
	MaxDailyTrades int `yaml:"max_daily_trades" json:"max_daily_trades" validate:"gt=0" jsonschema:"title=Max Daily Trades"`
	// TradeIntervalMinutes is the minimum spacing between two trade entries.
	TradeIntervalMinutes int `yaml:"trade_interval_minutes" json:"trade_interval_minutes" validate:"gte=0" jsonschema:"title=Trade Interval Minutes,description=Minimum minutes between entries"`
	// BreakevenFraction classifies a close as breakeven when
	// |pnl| <= fraction * entry price.
	BreakevenFraction float64 `yaml:"breakeven_fraction" json:"breakeven_fraction" validate:"gte=0" jsonschema:"title=Breakeven Fraction"`

	PrimaryTimeframe types.Timeframe `yaml:"primary_timeframe" json:"primary_timeframe" validate:"required" jsonschema:"title=Primary Timeframe,description=Timeframe the replay loop iterates over"`
	// LookbackBars bounds the candle window handed to strategies per
	// timeframe; indicator cost per bar is O(window), not O(history).
	LookbackBars map[types.Timeframe]int `yaml:"lookback_bars" json:"lookback_bars" jsonschema:"title=Lookback Bars,description=Per-timeframe candle window sizes"`

	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional replay window start"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional replay window end"`
}

// DefaultConfig returns the configuration the production system runs with.
func DefaultConfig(symbol string, initialCapital float64) SimulationConfig {
	return SimulationConfig{
		Symbol:               symbol,
		ReferenceSymbol:      "BTCUSDT",
		InitialCapital:       initialCapital,
		MaxRiskPerTrade:      0.01,
		SlippageFraction:     0.0002,
		MaxHoldBars:          50,
		MaxDailyTrades:       10,
		TradeIntervalMinutes: 30,
		BreakevenFraction:    0.001,
		PrimaryTimeframe:     types.Timeframe15m,
		LookbackBars: map[types.Timeframe]int{
			types.Timeframe1m:  300,
			types.Timeframe5m:  300,
			types.Timeframe15m: 200,
			types.Timeframe1H:  100,
			types.Timeframe4H:  100,
		},
		StartTime: optional.None[time.Time](),
		EndTime:   optional.None[time.Time](),
	}
}

// TradeInterval returns the minimum spacing between entries as a Duration.
func (c *SimulationConfig) TradeInterval() time.Duration {
	return time.Duration(c.TradeIntervalMinutes) * time.Minute
}

// Lookback returns the candle window size for a timeframe, falling back to
// 100 bars for timeframes without an explicit entry.
func (c *SimulationConfig) Lookback(tf types.Timeframe) int {
	if lookback, ok := c.LookbackBars[tf]; ok && lookback > 0 {
		return lookback
	}

	return 100
}

// Validate checks the configuration before a run.
func (c *SimulationConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid simulation config", err)
	}

	return nil
}

// UnmarshalYAML implements custom unmarshaling for SimulationConfig so the
// optional time bounds round-trip through plain YAML timestamps.
func (c *SimulationConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		Symbol               string                  `yaml:"symbol"`
		ReferenceSymbol      string                  `yaml:"reference_symbol"`
		InitialCapital       float64                 `yaml:"initial_capital"`
		MaxRiskPerTrade      float64                 `yaml:"max_risk_per_trade"`
		SlippageFraction     float64                 `yaml:"slippage_fraction"`
		MaxHoldBars          int                     `yaml:"max_hold_bars"`
		MaxDailyTrades       int                     `yaml:"max_daily_trades"`
		TradeIntervalMinutes int                     `yaml:"trade_interval_minutes"`
		BreakevenFraction    float64                 `yaml:"breakeven_fraction"`
		PrimaryTimeframe     types.Timeframe         `yaml:"primary_timeframe"`
		LookbackBars         map[types.Timeframe]int `yaml:"lookback_bars"`
		StartTime            *time.Time              `yaml:"start_time"`
		EndTime              *time.Time              `yaml:"end_time"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.Symbol = config.Symbol
	c.ReferenceSymbol = config.ReferenceSymbol
	c.InitialCapital = config.InitialCapital
	c.MaxRiskPerTrade = config.MaxRiskPerTrade
	c.SlippageFraction = config.SlippageFraction
	c.MaxHoldBars = config.MaxHoldBars
	c.MaxDailyTrades = config.MaxDailyTrades
	c.TradeIntervalMinutes = config.TradeIntervalMinutes
	c.BreakevenFraction = config.BreakevenFraction
	c.PrimaryTimeframe = config.PrimaryTimeframe
	c.LookbackBars = config.LookbackBars

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the SimulationConfig.
func (c *SimulationConfig) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "simulation-config"
	schema.Description = "Configuration schema for the trade-replay simulation engine"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates a JSON schema string for the SimulationConfig.
func (c *SimulationConfig) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
