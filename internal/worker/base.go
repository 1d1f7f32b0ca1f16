package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const errorBackoff = time.Second

// BaseWorker - базовая структура для stream воркеров: сигнал остановки и цикл опроса
type BaseWorker struct {
	name          string
	logger        *zap.Logger
	clock         clockwork.Clock
	pollInterval  time.Duration
	stopChan      chan struct{}
	stopped       bool
	mu            sync.Mutex
	consumerGroup string
}

// NewBaseWorker создает новый базовый воркер
func NewBaseWorker(name, consumerGroup string, pollInterval time.Duration, clock clockwork.Clock, logger *zap.Logger) *BaseWorker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &BaseWorker{
		name:          name,
		logger:        logger.With(zap.String("worker", name)),
		clock:         clock,
		pollInterval:  pollInterval,
		stopChan:      make(chan struct{}),
		consumerGroup: consumerGroup,
	}
}

// Name возвращает имя воркера
func (w *BaseWorker) Name() string {
	return w.name
}

// Stop останавливает цикл опроса. Повторный вызов ничего не делает.
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.logger.Info("Stopping worker")
	close(w.stopChan)
	w.stopped = true

	return nil
}

// IsStopped проверяет, остановлен ли воркер
func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

// StopChan возвращает канал остановки
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// ConsumerGroup возвращает имя consumer group
func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

// Logger возвращает логгер воркера
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// Poll вызывает step, пока воркер не остановлен и ctx не отменен. step
// возвращает число обработанных сообщений; после пустой пачки цикл ждет
// pollInterval, после ошибки errorBackoff.
func (w *BaseWorker) Poll(ctx context.Context, step func(ctx context.Context) (int, error)) error {
	for {
		select {
		case <-w.stopChan:
			w.logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			w.logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := step(ctx)
		var wait time.Duration
		switch {
		case err != nil:
			w.logger.Error("Failed to process batch", zap.Error(err))
			wait = errorBackoff
		case processed == 0:
			wait = w.pollInterval
		default:
			continue
		}

		select {
		case <-w.stopChan:
		case <-ctx.Done():
		case <-w.clock.After(wait):
		}
	}
}
