package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dnldd/roll/calendar"
	"github.com/dnldd/roll/database"
	"github.com/dnldd/roll/mapping"
	"github.com/dnldd/roll/shared"
	"github.com/dnldd/roll/universe"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	// liveTriggerHorizon is how far ahead selection triggers are armed in
	// live mode.
	liveTriggerHorizon = time.Hour * 24 * 30
)

// RollConfig represents the configuration struct for the roll service.
type RollConfig struct {
	// Market is the market the tracked universes trade on.
	Market string
	// Tickers are the base tickers of the tracked continuous contract universes.
	Tickers []string
	// MarketHoursPath is the filepath to the market hours database.
	MarketHoursPath string
	// MappingDir is the directory holding contract mapping files.
	MappingDir string
	// Backtest is the backtesting flag.
	Backtest bool
	// BacktestStart is the backtest range start in utc.
	BacktestStart time.Time
	// BacktestEnd is the backtest range end in utc.
	BacktestEnd time.Time
	// DatabaseEndpoint is the roll event database endpoint, persistence is
	// skipped when empty.
	DatabaseEndpoint string
	// DatabaseUser is the database user.
	DatabaseUser string
	// DatabasePass is the database user pass.
	DatabasePass string
	// SendSubscriptions relays subscription configs produced by selections
	// to the subscription manager.
	SendSubscriptions func(configs []universe.SubscriptionConfig)
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config has sane inputs.
func (cfg *RollConfig) Validate() error {
	var errs error

	if cfg.Market == "" {
		errs = errors.Join(errs, fmt.Errorf("no market provided for roll service"))
	}
	if len(cfg.Tickers) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no tickers provided for roll service"))
	}
	if cfg.MarketHoursPath == "" {
		errs = errors.Join(errs, fmt.Errorf("market hours path cannot be an empty string"))
	}
	if cfg.MappingDir == "" {
		errs = errors.Join(errs, fmt.Errorf("mapping directory cannot be an empty string"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}
	if cfg.Backtest {
		if cfg.BacktestStart.IsZero() || cfg.BacktestEnd.IsZero() {
			errs = errors.Join(errs, fmt.Errorf("backtest range cannot be unset"))
		}
		if !cfg.BacktestStart.Before(cfg.BacktestEnd) {
			errs = errors.Join(errs, fmt.Errorf("backtest start must precede its end"))
		}
	}

	return errs
}

// Roll represents a continuous contract roll service.
type Roll struct {
	cfg      *RollConfig
	hours    *calendar.ExchangeHours
	resolver *mapping.FileResolver
	managers []*universe.Manager
	db       *database.Database
	logger   *zerolog.Logger
	wg       sync.WaitGroup
}

// NewRoll initializes a new roll service.
func NewRoll(ctx context.Context, cfg *RollConfig) (*Roll, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating roll service config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "roll").Logger()

	hours, err := calendar.LoadExchangeHours(cfg.MarketHoursPath, cfg.Market)
	if err != nil {
		return nil, fmt.Errorf("loading exchange hours: %w", err)
	}

	resolverLogger := logger.With().Str("component", "mappingresolver").Logger()
	resolver, err := mapping.NewFileResolver(&mapping.FileResolverConfig{
		Dir:    cfg.MappingDir,
		Logger: &resolverLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating mapping resolver: %w", err)
	}

	var db *database.Database
	if cfg.DatabaseEndpoint != "" {
		dbLogger := logger.With().Str("component", "database").Logger()
		db, err = database.NewDatabase(ctx, &database.DatabaseConfig{
			Endpoint: cfg.DatabaseEndpoint,
			User:     cfg.DatabaseUser,
			Pass:     cfg.DatabasePass,
			Logger:   &dbLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating database: %w", err)
		}
	}

	var persistRollEvent func(ctx context.Context, event *universe.RollEvent) error
	if db != nil {
		persistRollEvent = db.PersistRollEvent
	}

	schedule := universe.NewTriggerSchedule(hours, !cfg.Backtest)

	managers := make([]*universe.Manager, 0, len(cfg.Tickers))
	for idx := range cfg.Tickers {
		security, err := shared.NewSecurity(shared.Symbol{
			Ticker:       cfg.Tickers[idx],
			Market:       cfg.Market,
			SecurityType: shared.Future,
		}, hours.Location())
		if err != nil {
			return nil, fmt.Errorf("creating %s security: %w", cfg.Tickers[idx], err)
		}

		selectorLogger := logger.With().Str("component", "selector").
			Str("ticker", cfg.Tickers[idx]).Logger()
		selector, err := universe.NewSelector(&universe.SelectorConfig{
			Security: security,
			Resolver: resolver,
			Logger:   &selectorLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating %s selector: %w", cfg.Tickers[idx], err)
		}

		sendSymbolUpdates := func(symbols []shared.Symbol) {
			if cfg.SendSubscriptions == nil {
				return
			}

			configs := make([]universe.SubscriptionConfig, 0, len(symbols))
			for idx := range symbols {
				configs = append(configs, universe.CreateSubscriptions(symbols[idx],
					universe.SubscriptionRequest{
						Resolution:  shared.MinuteResolution,
						FillForward: true,
						MappingMode: shared.LastTradingDayMapping,
					})...)
			}

			cfg.SendSubscriptions(configs)
		}

		managerLogger := logger.With().Str("component", "rollmanager").
			Str("ticker", cfg.Tickers[idx]).Logger()
		manager, err := universe.NewManager(&universe.ManagerConfig{
			Selector:          selector,
			Schedule:          schedule,
			Live:              !cfg.Backtest,
			SendSymbolUpdates: sendSymbolUpdates,
			PersistRollEvent:  persistRollEvent,
			Logger:            &managerLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating %s roll manager: %w", cfg.Tickers[idx], err)
		}

		managers = append(managers, manager)
	}

	return &Roll{
		cfg:      cfg,
		hours:    hours,
		resolver: resolver,
		managers: managers,
		db:       db,
		logger:   &logger,
	}, nil
}

// scheduleTriggers arms selection triggers for every managed universe.
func (r *Roll) scheduleTriggers() error {
	start, end := r.cfg.BacktestStart, r.cfg.BacktestEnd
	if !r.cfg.Backtest {
		now := time.Now().UTC()
		start, end = now, now.Add(liveTriggerHorizon)
	}

	for idx := range r.managers {
		// The initial selection covers day one of the range.
		r.managers[idx].SendTrigger(start)

		err := r.managers[idx].ScheduleTriggers(start, end)
		if err != nil {
			return err
		}
	}

	// todo: re-arm live triggers when the horizon elapses instead of
	// requiring a service restart.

	return nil
}

// Run manages the lifecycle processes of the roll service.
func (r *Roll) Run(ctx context.Context) {
	r.wg.Add(len(r.managers))
	for idx := range r.managers {
		manager := r.managers[idx]
		go func() {
			manager.Run(ctx)
			r.wg.Done()
		}()
	}

	err := r.scheduleTriggers()
	if err != nil {
		r.logger.Error().Msgf("scheduling triggers: %v", err)
		r.cfg.Cancel()
	}

	if r.cfg.Backtest {
		go func() {
			// wait briefly for the queued triggers to drain.
			time.Sleep(time.Second * 1)

			r.logger.Info().Msgf("backtest roll selection for %s done", r.cfg.Market)
			r.cfg.Cancel()
		}()
	}

	r.wg.Wait()
}
