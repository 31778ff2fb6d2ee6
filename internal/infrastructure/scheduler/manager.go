// Package scheduler runs the worker's periodic jobs on gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// BatchJob processes one batch and returns the number of items it handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) {
	return f(ctx)
}

// SchedulerManager owns the single gocron scheduler of a worker process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a scheduler in the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterReconciliationJob re-verifies stale pending transactions every
// interval, starting immediately.
func (m *SchedulerManager) RegisterReconciliationJob(job BatchJob, interval time.Duration) error {
	if err := m.registerBatchJob("payment-reconcile", interval, interval, job, "payment", "reconcile"); err != nil {
		return err
	}
	m.logger.Infow("registered reconciliation job", "interval", interval)
	return nil
}

// RegisterExpiryJobs flips overdue subscriptions and id cards once a day.
// Reads already treat overdue records as expired; these keep stored rows
// consistent for reports.
func (m *SchedulerManager) RegisterExpiryJobs(expireSubscriptions, expireCards BatchJob) error {
	if err := m.registerBatchJob("subscription-expire", 24*time.Hour, 10*time.Minute, expireSubscriptions, "subscription", "expire"); err != nil {
		return err
	}
	if err := m.registerBatchJob("id-card-expire", 24*time.Hour, 10*time.Minute, expireCards, "id_card", "expire"); err != nil {
		return err
	}
	m.logger.Infow("registered expiry jobs", "interval", "24h")
	return nil
}

func (m *SchedulerManager) registerBatchJob(name string, interval, timeout time.Duration, job BatchJob, tags ...string) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runBatch(ctx, name, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(tags...),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", name, err)
	}
	return nil
}

func (m *SchedulerManager) runBatch(ctx context.Context, name string, job BatchJob) {
	m.logger.Debugw("scheduled job started", "job", name)

	startTime := biztime.NowUTC()

	count, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("scheduled job processed items",
			"job", name,
			"count", count,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("scheduled job found nothing to do",
			"job", name,
			"duration", time.Since(startTime),
		)
	}
}

// Start begins running registered jobs. Calling it twice is a no-op.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}
	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "jobs", len(m.scheduler.Jobs()))
}

// Shutdown waits for running jobs to finish.
func (m *SchedulerManager) Shutdown() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if err := m.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	m.started = false
	m.logger.Infow("scheduler stopped")
	return nil
}

// JobNames lists registered jobs.
func (m *SchedulerManager) JobNames() []string {
	jobs := m.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}
