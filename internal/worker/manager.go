package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultShutdownTimeout = 30 * time.Second

// WorkerManager запускает набор воркеров, останавливает их вместе и сообщает
// о воркерах, завершившихся с ошибкой.
type WorkerManager struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration
	wg              sync.WaitGroup

	mu      sync.Mutex
	workers []Worker
	failed  map[string]error
}

// NewWorkerManager создает менеджер воркеров. shutdownTimeout <= 0 - 30s.
func NewWorkerManager(logger *zap.Logger, shutdownTimeout time.Duration) *WorkerManager {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &WorkerManager{
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
		failed:          make(map[string]error),
	}
}

// Register регистрирует воркер
func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

func (m *WorkerManager) snapshot() []Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Worker(nil), m.workers...)
}

// Start запускает каждый воркер в отдельной горутине
func (m *WorkerManager) Start(ctx context.Context) error {
	workers := m.snapshot()
	if len(workers) == 0 {
		return errors.New("no workers registered")
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))
	for _, w := range workers {
		m.wg.Add(1)
		go m.run(ctx, w)
	}
	return nil
}

func (m *WorkerManager) run(ctx context.Context, w Worker) {
	defer m.wg.Done()

	m.logger.Info("Starting worker", zap.String("name", w.Name()))
	err := w.Start(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	m.logger.Error("Worker failed", zap.String("name", w.Name()), zap.Error(err))
	m.mu.Lock()
	m.failed[w.Name()] = err
	m.mu.Unlock()
}

// Health возвращает ошибку, если какой-либо воркер завершился с ошибкой
func (m *WorkerManager) Health(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.failed) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.failed))
	for name := range m.failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("worker %s stopped: %w", names[0], m.failed[names[0]])
}

// Stop останавливает все воркеры и ждет их завершения не дольше shutdownTimeout
func (m *WorkerManager) Stop() error {
	workers := m.snapshot()
	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker", zap.String("name", w.Name()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(m.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-done:
		m.logger.Info("All workers stopped gracefully")
		return nil
	case <-timer.C:
		m.logger.Warn("Workers shutdown timed out", zap.Duration("timeout", m.shutdownTimeout))
		return fmt.Errorf("workers shutdown timed out after %v", m.shutdownTimeout)
	}
}
