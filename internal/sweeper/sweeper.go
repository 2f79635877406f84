package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"formgate/internal/config"
	metricsPkg "formgate/internal/metrics"
	"formgate/internal/spam"
)

// FormCounter provides the form counts used for gauge refresh
type FormCounter interface {
	CountForms(ctx context.Context) (total int64, active int64, err error)
}

const countTimeout = 5 * time.Second

// Sweeper periodically evicts idle origins from the rate history and
// refreshes the form gauges. Eviction runs off the request path so the
// intake handler never pays for it.
type Sweeper struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	config    *config.SweeperConfig
	history   *spam.History
	forms     FormCounter
	metrics   *metricsPkg.Metrics
	isRunning bool
	mu        sync.RWMutex
}

// New creates a new sweeper
func New(cfg *config.SweeperConfig, history *spam.History, forms FormCounter, metrics *metricsPkg.Metrics) *Sweeper {
	return &Sweeper{
		cron:    cron.New(cron.WithSeconds()),
		config:  cfg,
		history: history,
		forms:   forms,
		metrics: metrics,
	}
}

// Start starts the sweeper
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("sweeper is already running")
	}

	schedule := fmt.Sprintf("0 */%d * * * *", s.config.IntervalMinutes)

	entryID, err := s.cron.AddFunc(schedule, s.sweep)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Sweeper started with interval: %d minutes", s.config.IntervalMinutes)
	return nil
}

// Stop stops the sweeper
func (s *Sweeper) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.cron.Remove(s.entryID)
	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
		logrus.Info("Sweeper stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Sweeper stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the sweeper is running
func (s *Sweeper) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunOnce runs one sweep immediately (for manual triggering)
func (s *Sweeper) RunOnce() {
	s.sweep()
}

// sweep evicts idle rate-history origins and refreshes form gauges
func (s *Sweeper) sweep() {
	evicted := s.history.Sweep(time.Now())
	if evicted > 0 {
		logrus.Debugf("Evicted %d idle origins from rate history (%d tracked)", evicted, s.history.TrackedOrigins())
	}

	ctx, cancel := context.WithTimeout(context.Background(), countTimeout)
	defer cancel()

	total, active, err := s.forms.CountForms(ctx)
	if err != nil {
		logrus.Errorf("Failed to refresh form gauges: %v", err)
		return
	}

	s.metrics.TotalForms.Set(float64(total))
	s.metrics.ActiveForms.Set(float64(active))
}
