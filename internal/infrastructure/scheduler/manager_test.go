package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberhub/memberhub/internal/shared/logger"
)

func counterJob(counter *atomic.Int32, err error) BatchJob {
	return BatchJobFunc(func(ctx context.Context) (int, error) {
		counter.Add(1)
		return 1, err
	})
}

func TestSchedulerManager_RunsJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	var reconciled, subs, cards atomic.Int32
	require.NoError(t, m.RegisterReconciliationJob(counterJob(&reconciled, nil), 20*time.Millisecond))
	require.NoError(t, m.RegisterExpiryJobs(counterJob(&subs, nil), counterJob(&cards, errors.New("db down"))))
	assert.ElementsMatch(t, []string{"payment-reconcile", "subscription-expire", "id-card-expire"}, m.JobNames())

	m.Start()
	m.Start()
	t.Cleanup(func() { _ = m.Shutdown() })

	assert.Eventually(t, func() bool { return reconciled.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return subs.Load() >= 1 && cards.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerManager_RejectsBadInterval(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	var n atomic.Int32
	assert.Error(t, m.RegisterReconciliationJob(counterJob(&n, nil), 0))
}
