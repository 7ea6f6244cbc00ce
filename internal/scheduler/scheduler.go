package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"FinSight/internal/directory"
	"FinSight/internal/marketdata"
)

const cacheSweepSpec = "@every 10m"

// Scheduler manages the background cron tasks: the periodic directory
// refresh and the market-data cache sweep.
type Scheduler struct {
	cron           *cron.Cron
	directory      *directory.Store
	cache          *marketdata.CachedFetcher // nil when caching is disabled
	refreshTimeout time.Duration
	logger         *zap.Logger
}

// New creates a scheduler over the directory and cache.
func New(dir *directory.Store, cache *marketdata.CachedFetcher, refreshTimeout time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		directory:      dir,
		cache:          cache,
		refreshTimeout: refreshTimeout,
		logger:         logger,
	}
}

// RegisterAll registers the directory refresh at the given interval and the
// cache sweep.
func (s *Scheduler) RegisterAll(refreshInterval time.Duration) error {
	spec := fmt.Sprintf("@every %s", refreshInterval)
	if _, err := s.cron.AddFunc(spec, s.refreshDirectory); err != nil {
		return fmt.Errorf("register directory refresh: %w", err)
	}
	if s.cache != nil {
		if _, err := s.cron.AddFunc(cacheSweepSpec, s.sweepCache); err != nil {
			return fmt.Errorf("register cache sweep: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunRefreshNow executes the directory refresh immediately (startup warmup).
func (s *Scheduler) RunRefreshNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
	defer cancel()
	return s.directory.Refresh(ctx)
}

func (s *Scheduler) refreshDirectory() {
	if err := s.RunRefreshNow(); err != nil {
		s.logger.Error("scheduled directory refresh failed", zap.Error(err))
	}
}

func (s *Scheduler) sweepCache() {
	if purged := s.cache.PurgeExpired(); purged > 0 {
		s.logger.Debug("cache sweep", zap.Int("purged", purged))
	}
}
