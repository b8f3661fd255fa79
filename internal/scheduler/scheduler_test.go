package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestScheduleRejectsInvalidInterval(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	defer s.Stop()

	_, err := s.Schedule(0, func() {})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestScheduleRunsUntilCanceled(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	defer s.Stop()

	var runs atomic.Int32
	cancel, err := s.Schedule(50*time.Millisecond, func() { runs.Add(1) })
	require.NoError(t, err)

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	cancel()

	// Let a run that was already past the cancel check finish.
	time.Sleep(100 * time.Millisecond)
	stopped := runs.Load()
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduleWaitsForFirstInterval(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	defer s.Stop()

	var runs atomic.Int32
	cancel, err := s.Schedule(time.Hour, func() { runs.Add(1) })
	require.NoError(t, err)
	defer cancel()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}

func TestCancelLeavesOtherJobsRunning(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	defer s.Stop()

	var first, second atomic.Int32
	cancelFirst, err := s.Schedule(30*time.Millisecond, func() { first.Add(1) })
	require.NoError(t, err)
	cancelSecond, err := s.Schedule(30*time.Millisecond, func() { second.Add(1) })
	require.NoError(t, err)
	defer cancelSecond()

	cancelFirst()
	time.Sleep(50 * time.Millisecond)
	stopped := first.Load()
	after := second.Load()

	require.Eventually(t, func() bool { return second.Load() >= after+2 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, stopped, first.Load())
}
