package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskpilot/client/persist"
)

// JanitorConfig controls how often snapshot history is pruned and how long
// entries are retained.
type JanitorConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// Janitor periodically prunes old envelope history from the persistence
// store. The current snapshot is never touched.
type Janitor struct {
	store  *persist.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    JanitorConfig
}

func NewJanitor(store *persist.Store, logger *zap.Logger, cfg JanitorConfig) *Janitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &Janitor{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = j.cron.AddFunc(schedule, func() {
		if err := j.Prune(); err != nil {
			j.logger.Error("history prune failed", zap.Error(err))
		}
	})

	return j
}

// Start begins the pruning schedule.
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule, waiting for a running prune to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Prune removes history entries older than the retention window.
func (j *Janitor) Prune() error {
	cutoff := time.Now().Add(-j.cfg.Retention)
	if err := j.store.PruneHistory(cutoff); err != nil {
		return err
	}
	if size, err := j.store.HistorySize(); err == nil {
		j.logger.Debug("snapshot history pruned", zap.Int("remaining", size))
	}
	return nil
}
