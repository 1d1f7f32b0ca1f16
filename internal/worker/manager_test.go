package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingWorker struct {
	*BaseWorker
	steps atomic.Int32
}

func (w *countingWorker) Start(ctx context.Context) error {
	return w.Poll(ctx, func(context.Context) (int, error) {
		w.steps.Add(1)
		return 0, nil
	})
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := NewWorkerManager(zap.NewNop(), time.Second)
	w := &countingWorker{BaseWorker: NewBaseWorker("counter", "group", time.Millisecond, nil, zap.NewNop())}
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, func() bool { return w.steps.Load() >= 3 }, time.Second, time.Millisecond)

	require.NoError(t, m.Stop())
	assert.True(t, w.IsStopped())
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := NewWorkerManager(zap.NewNop(), 0)
	assert.Error(t, m.Start(context.Background()))
}

func TestPoll_ContextCancelled(t *testing.T) {
	w := NewBaseWorker("idle", "group", time.Hour, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- w.Poll(ctx, func(context.Context) (int, error) { return 0, nil })
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poll did not return")
	}
}

type failingWorker struct {
	*BaseWorker
}

func (w *failingWorker) Start(ctx context.Context) error {
	return errors.New("consumer group vanished")
}

func TestWorkerManager_Health(t *testing.T) {
	m := NewWorkerManager(zap.NewNop(), time.Second)
	ok := &countingWorker{BaseWorker: NewBaseWorker("counter", "group", time.Millisecond, nil, zap.NewNop())}
	bad := &failingWorker{BaseWorker: NewBaseWorker("refresh", "group", time.Millisecond, nil, zap.NewNop())}
	m.Register(ok)
	m.Register(bad)

	assert.NoError(t, m.Health(context.Background()))
	require.NoError(t, m.Start(context.Background()))

	assert.Eventually(t, func() bool { return m.Health(context.Background()) != nil }, time.Second, time.Millisecond)
	err := m.Health(context.Background())
	assert.Contains(t, err.Error(), "refresh")
	assert.Contains(t, err.Error(), "consumer group vanished")

	require.NoError(t, m.Stop())
}
