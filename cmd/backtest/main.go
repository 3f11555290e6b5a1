package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-portfolio/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-portfolio/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-portfolio/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-portfolio/internal/strategy"
	"github.com/rxtech-lab/argo-portfolio/internal/types"
	"github.com/rxtech-lab/argo-portfolio/internal/version"
)

// runAction wires the engine together: config, CSV market data, strategy,
// and an output folder, then runs the backtest and prints the report.
func runAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	strategyName := cmd.String("strategy")
	strategyConfigPath := cmd.String("strategy-config")
	dataPath := cmd.String("data")
	outputFolder := cmd.String("output")

	engineConfig := ""

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		engineConfig = string(content)
	}

	backtester := enginev1.NewBacktestEngineV1()
	if err := backtester.Initialize(engineConfig); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	tradingStrategy, err := strategy.NewStrategy(strategyName)
	if err != nil {
		return err
	}

	if err := backtester.SetStrategy(tradingStrategy); err != nil {
		return err
	}

	strategyConfig, err := os.ReadFile(strategyConfigPath)
	if err != nil {
		return fmt.Errorf("failed to read strategy config: %w", err)
	}

	if err := backtester.SetStrategyConfig(string(strategyConfig)); err != nil {
		return err
	}

	source := datasource.NewCSVDataSource()
	if err := source.Initialize(dataPath); err != nil {
		return err
	}
	defer source.Close()

	if err := backtester.SetDataSource(source); err != nil {
		return err
	}

	if err := backtester.LoadMarketData(); err != nil {
		return err
	}

	if err := backtester.SetResultsFolder(outputFolder); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onStart := engine.OnBacktestStartCallback(func(totalDates int) error {
		bar = progressbar.Default(int64(totalDates))
		bar.Describe(fmt.Sprintf("Backtesting %s", tradingStrategy.Name()))

		return nil
	})
	onProcess := engine.OnProcessDataCallback(func(current, total int) error {
		return bar.Add(1)
	})

	callbacks := engine.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnProcessData:   &onProcess,
	}

	if err := backtester.Run(ctx, callbacks); err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	results, err := backtester.Results()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(results.Report())
	fmt.Printf("\nResults written to %s (run %s)\n", outputFolder, results.ID)

	return nil
}

// reportAction re-renders the summary of a previously saved results file,
// refusing files written by an incompatible engine version.
func reportAction(ctx context.Context, cmd *cli.Command) error {
	content, err := os.ReadFile(cmd.String("results"))
	if err != nil {
		return fmt.Errorf("failed to read results file: %w", err)
	}

	var results types.BacktestResults
	if err := yaml.Unmarshal(content, &results); err != nil {
		return fmt.Errorf("failed to parse results file: %w", err)
	}

	if results.EngineVersion != "" {
		if err := version.CheckResultsCompatibility(version.GetVersion(), results.EngineVersion); err != nil {
			return err
		}
	}

	fmt.Print(results.Report())

	return nil
}

// schemaAction prints the JSON schema of the engine configuration, or of a
// strategy's configuration when --strategy is given.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	strategyName := cmd.String("strategy")

	if strategyName != "" {
		schema, err := strategy.ConfigSchema(strategyName)
		if err != nil {
			return err
		}

		fmt.Println(schema)

		return nil
	}

	backtester := enginev1.NewBacktestEngineV1()

	schema, err := backtester.GetConfigSchema()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Simulate portfolio strategies over historical market data",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the engine configuration YAML (defaults apply when omitted)",
					},
					&cli.StringFlag{
						Name:     "strategy",
						Aliases:  []string{"s"},
						Usage:    fmt.Sprintf("Strategy to run, one of %v", strategy.StrategyNames()),
						Required: true,
					},
					&cli.StringFlag{
						Name:     "strategy-config",
						Usage:    "Path to the strategy configuration YAML",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the market data CSV file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Results output folder",
						Value:   "results",
					},
				},
				Action: runAction,
			},
			{
				Name:  "report",
				Usage: "Print the summary of a saved results file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "results",
						Aliases:  []string{"r"},
						Usage:    "Path to a results.yaml written by a previous run",
						Required: true,
					},
				},
				Action: reportAction,
			},
			{
				Name:  "schema",
				Usage: "Print the engine or strategy configuration schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "strategy",
						Aliases: []string{"s"},
						Usage:   "Print the schema of this strategy's configuration instead",
					},
				},
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
