package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReclaimerReleasesStaleLocks(t *testing.T) {
	svc, setNow := newTestService(t)
	start := svc.now()
	slot := createSlot(t, svc, start.Add(48*time.Hour))

	_, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)
	setNow(start.Add(11 * time.Minute))

	reclaimer := NewReclaimer(svc, 10*time.Millisecond, zap.NewNop())
	require.NoError(t, reclaimer.Start(context.Background()))
	defer reclaimer.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return !reloadSlot(t, svc, slot.ID).IsLocked
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReclaimerLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	reclaimer := NewReclaimer(svc, time.Hour, zap.NewNop())

	require.NoError(t, reclaimer.Start(context.Background()))
	// Double start is a no-op, not a second loop.
	require.NoError(t, reclaimer.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, reclaimer.Stop(stopCtx))

	// Stopping an already stopped reclaimer is harmless.
	require.NoError(t, reclaimer.Stop(context.Background()))
}
