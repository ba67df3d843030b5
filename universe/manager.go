package universe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dnldd/roll/shared"
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

const (
	// bufferSize is the default buffer size for channels.
	bufferSize = 64
)

// ManagerConfig represents the roll manager configuration.
type ManagerConfig struct {
	// Selector is the roll selector of the managed universe.
	Selector *Selector
	// Schedule produces the trigger times for the managed universe.
	Schedule *TriggerSchedule
	// Live is the live mode flag.
	Live bool
	// SendSymbolUpdates relays the symbols produced by a selection to the
	// subscription manager.
	SendSymbolUpdates func(symbols []shared.Symbol)
	// PersistRollEvent stores the provided roll event.
	PersistRollEvent func(ctx context.Context, event *RollEvent) error
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *ManagerConfig) Validate() error {
	var errs error

	if cfg.Selector == nil {
		errs = errors.Join(errs, fmt.Errorf("roll manager selector cannot be nil"))
	}
	if cfg.Schedule == nil {
		errs = errors.Join(errs, fmt.Errorf("roll manager trigger schedule cannot be nil"))
	}
	if cfg.SendSymbolUpdates == nil {
		errs = errors.Join(errs, fmt.Errorf("roll manager symbol update relay cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("roll manager logger cannot be nil"))
	}

	return errs
}

// Manager drives the time triggered roll selection of one universe. Triggers
// are processed on a single goroutine in arrival order, which upholds the
// selector's single-flight, non-decreasing time contract.
type Manager struct {
	cfg          *ManagerConfig
	triggers     chan time.Time
	jobScheduler gocron.Scheduler
}

// NewManager initializes a new roll manager.
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating roll manager config: %w", err)
	}

	mgr := &Manager{
		cfg:      cfg,
		triggers: make(chan time.Time, bufferSize),
	}

	if cfg.Live {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return nil, fmt.Errorf("creating job scheduler: %w", err)
		}

		mgr.jobScheduler = scheduler
	}

	return mgr, nil
}

// SendTrigger relays the provided trigger time for processing.
func (m *Manager) SendTrigger(trigger time.Time) {
	select {
	case m.triggers <- trigger:
		// do nothing.
	default:
		m.cfg.Logger.Error().Msgf("trigger channel at capacity: %d/%d",
			len(m.triggers), bufferSize)
	}
}

// ScheduleTriggers enqueues selection triggers for the provided utc range. In
// live mode triggers fire through the job scheduler at their instants, in
// backtest mode they are enqueued immediately in order.
func (m *Manager) ScheduleTriggers(startUtc, endUtc time.Time) error {
	times := m.cfg.Schedule.TriggerTimes(startUtc, endUtc)

	if !m.cfg.Live {
		for idx := range times {
			m.SendTrigger(times[idx])
		}

		return nil
	}

	for idx := range times {
		trigger := times[idx]
		_, err := m.jobScheduler.NewJob(
			gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(trigger)),
			gocron.NewTask(func() { m.SendTrigger(trigger) }),
		)
		if err != nil {
			return fmt.Errorf("scheduling trigger at %v: %w", trigger, err)
		}
	}

	m.jobScheduler.Start()

	return nil
}

// handleTrigger processes the provided selection trigger.
func (m *Manager) handleTrigger(ctx context.Context, trigger time.Time) {
	before, hadMapping := m.cfg.Selector.CurrentUnderlying()

	symbols, err := m.cfg.Selector.Select(trigger.UTC())
	if err != nil {
		m.cfg.Logger.Error().Msgf("selecting symbols at %v: %v", trigger, err)
		return
	}

	m.cfg.SendSymbolUpdates(symbols)

	after, ok := m.cfg.Selector.CurrentUnderlying()
	if !ok || (hadMapping && after.Equal(before)) {
		return
	}

	if m.cfg.PersistRollEvent != nil {
		event := NewRollEvent(m.cfg.Selector.Canonical().String(), before.Ticker, after.Ticker, trigger)
		err := m.cfg.PersistRollEvent(ctx, event)
		if err != nil {
			m.cfg.Logger.Error().Msgf("persisting roll event for %s: %v",
				m.cfg.Selector.Canonical().String(), err)
		}
	}
}

// Run manages the lifecycle processes of the roll manager.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			if m.jobScheduler != nil {
				err := m.jobScheduler.Shutdown()
				if err != nil {
					m.cfg.Logger.Error().Msgf("shutting down job scheduler: %v", err)
				}
			}
			return
		case trigger := <-m.triggers:
			m.handleTrigger(ctx, trigger)
		}
	}
}
