package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-portfolio/internal/marketgen"
)

// generateAction writes a synthetic market data CSV that the backtest
// command can consume directly.
func generateAction(ctx context.Context, cmd *cli.Command) error {
	symbols := cmd.StringSlice("symbols")
	outputPath := cmd.String("output")

	startTime, err := time.Parse("2006-01-02", cmd.String("start"))
	if err != nil {
		return fmt.Errorf("failed to parse start date: %w", err)
	}

	config := marketgen.DefaultConfig()
	config.StartTime = startTime
	config.Count = int(cmd.Int("days"))
	config.InitialPrice = cmd.Float("price")
	config.Volatility = cmd.Float("volatility")
	config.Trend = cmd.Float("trend")

	generator := marketgen.NewGenerator(cmd.Int("seed"))
	data := generator.GenerateMultiSymbol(symbols, config)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&data, file); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	fmt.Printf("Wrote %d rows for %d symbols to %s\n", len(data), len(symbols), outputPath)

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate synthetic market data CSV files for backtesting",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "symbols",
				Aliases: []string{"s"},
				Usage:   "Symbols to generate data for",
				Value:   []string{"AAPL", "MSFT", "GOOG"},
			},
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Usage:   "Number of daily observations per symbol",
				Value:   252,
			},
			&cli.StringFlag{
				Name:  "start",
				Usage: "First observation date (YYYY-MM-DD)",
				Value: "2024-01-02",
			},
			&cli.FloatFlag{
				Name:  "price",
				Usage: "Base initial price, varied per symbol",
				Value: 100,
			},
			&cli.FloatFlag{
				Name:  "volatility",
				Usage: "Base daily volatility, varied per symbol",
				Value: 0.015,
			},
			&cli.FloatFlag{
				Name:  "trend",
				Usage: "Total drift over the series",
				Value: 0,
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Random seed",
				Value: 42,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV path",
				Value:   "market.csv",
			},
		},
		Action: generateAction,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
