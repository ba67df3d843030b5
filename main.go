package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/dnldd/roll/service"
	"github.com/dnldd/roll/shared"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var backtestStart, backtestEnd time.Time
	if cfg.Backtest {
		// Validated by the config loader.
		backtestStart, _ = time.Parse(shared.DateLayout, cfg.BacktestStart)
		backtestEnd, _ = time.Parse(shared.DateLayout, cfg.BacktestEnd)
	}

	rollCfg := service.RollConfig{
		Market:           cfg.Market,
		Tickers:          cfg.Tickers,
		MarketHoursPath:  cfg.MarketHoursPath,
		MappingDir:       cfg.MappingDir,
		Backtest:         cfg.Backtest,
		BacktestStart:    backtestStart,
		BacktestEnd:      backtestEnd,
		DatabaseEndpoint: cfg.DatabaseEndpoint,
		DatabaseUser:     cfg.DatabaseUser,
		DatabasePass:     cfg.DatabasePass,
		Cancel:           cancel,
	}
	roll, err := service.NewRoll(ctx, &rollCfg)
	if err != nil {
		log.Printf("creating roll service: %v", err)
		return
	}

	go handleTermination(ctx, cancel)
	roll.Run(ctx)
}
