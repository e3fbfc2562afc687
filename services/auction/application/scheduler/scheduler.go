// Package scheduler runs the settlement sweep on a fixed interval with robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/robfig/cron/v3"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

// Sweeper settles closed auctions as of now.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// SettlementScheduler triggers Sweeper every interval. Runs never overlap
// within one process; overlaps across processes are handled by row locks.
type SettlementScheduler struct {
	cron     *cron.Cron
	sweeper  Sweeper
	clock    clock.Clock
	log      logger.Logger
	interval time.Duration
}

// NewSettlementScheduler returns a scheduler; call Start to begin ticking.
func NewSettlementScheduler(sweeper Sweeper, clk clock.Clock, interval time.Duration, log logger.Logger) *SettlementScheduler {
	cl := cronLogger{log: log}
	return &SettlementScheduler{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		sweeper:  sweeper,
		clock:    clk,
		log:      log,
		interval: interval,
	}
}

// Start registers the sweep job and starts the cron loop in the background.
// ctx is passed to every sweep; cancel it and call Stop to shut down.
func (s *SettlementScheduler) Start(ctx context.Context) error {
	s.log.Info("starting settlement scheduler", "interval", s.interval)

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("schedule settlement: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops scheduling and waits for a running sweep to finish or ctx to end.
func (s *SettlementScheduler) Stop(ctx context.Context) {
	s.log.Info("stopping settlement scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("settlement scheduler stop timed out")
	}
}

// RunOnce performs one sweep at the current clock time.
func (s *SettlementScheduler) RunOnce(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	n, err := s.sweeper.Sweep(ctx, s.clock.Now())
	if err != nil {
		s.log.ErrorContext(ctx, "settlement sweep failed", "error", err)
		return 0
	}
	return n
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct{ log logger.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
