package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/signal-replay/internal/filter"
	"github.com/rxtech-lab/signal-replay/internal/history"
	"github.com/rxtech-lab/signal-replay/internal/logger"
	"github.com/rxtech-lab/signal-replay/internal/replay"
	"github.com/rxtech-lab/signal-replay/internal/strategy"
	"github.com/rxtech-lab/signal-replay/internal/types"
	"github.com/rxtech-lab/signal-replay/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"
)

func loadConfig(path, symbol string, initialCapital float64) (replay.SimulationConfig, error) {
	config := replay.DefaultConfig(symbol, initialCapital)
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// runAction loads history, wires the strategies and filters, and replays.
func runAction(ctx context.Context, cmd *cli.Command) error {
	config, err := loadConfig(cmd.String("config"), cmd.String("symbol"), cmd.Float("capital"))
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	log.Printf("Loading history from %s...", cmd.String("data"))
	series, err := history.LoadDirectory(cmd.String("data"))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	reference := optional.None[history.Series]()
	if referenceDir := cmd.String("reference-data"); referenceDir != "" {
		referenceSeries, err := history.LoadDirectory(referenceDir)
		if err != nil {
			return fmt.Errorf("failed to load reference history: %w", err)
		}
		reference = optional.Some(referenceSeries)
	}

	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	engine, err := replay.NewEngine(
		config,
		appLogger,
		filter.DefaultChain(),
		strategy.NewTrendFollowing(config.PrimaryTimeframe),
		strategy.NewMeanReversion(config.PrimaryTimeframe),
	)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	progress := replay.OnProgressCallback(func(current, total int) error {
		if bar == nil {
			bar = progressbar.Default(int64(total))
		}
		return bar.Set(current)
	})

	result, err := engine.Run(series, reference, optional.Some(progress))
	if err != nil {
		return err
	}

	outputPath := cmd.String("output")
	if err := types.WriteResult(outputPath, result); err != nil {
		return err
	}

	log.Printf("Replay %s finished: %d trades, final capital %.2f, results written to %s",
		result.ID, result.Trades.TotalTrades, result.Summary.FinalCapital, outputPath)
	return nil
}

// schemaAction prints the JSON schema for the simulation config.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	config := replay.DefaultConfig("", 0)
	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "replay",
		Usage:   "Deterministic trade replay over historical candles",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Replay the configured strategies over a candle directory",
				Action: runAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to a simulation config YAML file",
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Directory of per-timeframe candle CSV files",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "reference-data",
						Usage: "Optional directory of candle CSVs for the reference instrument",
					},
					&cli.StringFlag{
						Name:    "symbol",
						Aliases: []string{"s"},
						Usage:   "Instrument symbol, used when no config file is given",
						Value:   "ETHUSDT",
					},
					&cli.FloatFlag{
						Name:  "capital",
						Usage: "Initial capital, used when no config file is given",
						Value: 10000,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the YAML results file",
						Value:   "replay_results.yaml",
					},
				},
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema for the simulation config",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
