package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SnapshotRefresher re-runs the aggregation for the currently selected
// team on a schedule so live scores and box scores stay current without
// presentation-side polling of the stats API.
type SnapshotRefresher struct {
	aggregator *TeamAggregator
	logger     *logrus.Logger
	cron       *cron.Cron
	schedule   string

	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
	runCount  int
	errCount  int
}

// NewSnapshotRefresher creates a refresher with a cron schedule
// expression (standard five-field format).
func NewSnapshotRefresher(aggregator *TeamAggregator, schedule string, logger *logrus.Logger) *SnapshotRefresher {
	return &SnapshotRefresher{
		aggregator: aggregator,
		logger:     logger,
		cron:       cron.New(cron.WithLogger(cron.VerbosePrintfLogger(logger))),
		schedule:   schedule,
	}
}

// Start schedules the refresh job and starts the cron runner.
func (r *SnapshotRefresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("snapshot refresher is already running")
	}

	if _, err := r.cron.AddFunc(r.schedule, r.refresh); err != nil {
		return fmt.Errorf("failed to schedule snapshot refresh: %w", err)
	}

	r.cron.Start()
	r.isRunning = true
	r.logger.WithFields(logrus.Fields{
		"component": "refresher",
		"schedule":  r.schedule,
	}).Info("Snapshot refresher started")
	return nil
}

// Stop halts the cron runner, waiting for a running job to finish.
func (r *SnapshotRefresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isRunning {
		return
	}
	<-r.cron.Stop().Done()
	r.isRunning = false
	r.logger.WithField("component", "refresher").Info("Snapshot refresher stopped")
}

func (r *SnapshotRefresher) refresh() {
	snapshot := r.aggregator.Snapshot()
	if snapshot.TeamID == 0 {
		return
	}
	// Loading means a selection is already in flight; the generation
	// stamp would discard this run's results anyway.
	if snapshot.Loading {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	result := r.aggregator.SelectTeam(ctx, snapshot.TeamID)

	r.mu.Lock()
	r.lastRun = start
	r.runCount++
	if result.Error != "" {
		r.errCount++
	}
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"component": "refresher",
		"team_id":   snapshot.TeamID,
		"duration":  time.Since(start).String(),
		"error":     result.Error,
	}).Debug("Snapshot refresh completed")
}

// Status reports run bookkeeping for the health endpoint.
func (r *SnapshotRefresher) Status() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return map[string]interface{}{
		"is_running":  r.isRunning,
		"schedule":    r.schedule,
		"last_run":    r.lastRun,
		"run_count":   r.runCount,
		"error_count": r.errCount,
	}
}
