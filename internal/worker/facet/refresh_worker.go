package facet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
	"github.com/hotspot-explorer/internal/query"
	"github.com/hotspot-explorer/internal/worker"
)

// Refresher перезагружает кешированные списки значений таблицы.
type Refresher interface {
	RefreshAll(ctx context.Context, table string) error
}

// RefreshWorker читает события обновления датасета и перезагружает фасеты
// затронутых таблиц. Несколько событий для одной таблицы в пачке дают одно обновление.
type RefreshWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	refresher    Refresher
	consumerName string
	batchSize    int64
}

// NewRefreshWorker создает новый воркер обновления фасетов
func NewRefreshWorker(
	streamRepo repository.StreamRepository,
	refresher Refresher,
	consumerGroup string,
	batchSize int,
	pollInterval time.Duration,
	clock clockwork.Clock,
	logger *zap.Logger,
) *RefreshWorker {
	hostname, _ := os.Hostname()
	return &RefreshWorker{
		BaseWorker:   worker.NewBaseWorker("facet-refresh", consumerGroup, pollInterval, clock, logger),
		streamRepo:   streamRepo,
		refresher:    refresher,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    int64(batchSize),
	}
}

// Start создает consumer group и запускает цикл опроса
func (w *RefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting facet refresh worker",
		zap.String("stream", domain.StreamDatasetRefreshed),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamDatasetRefreshed, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	return w.Poll(ctx, w.processBatch)
}

// processBatch обрабатывает одно чтение из стрима и возвращает число
// сообщений. Сообщения подтверждаются только после успешного обновления
// всех таблиц; неудачная пачка остается в pending и читается повторно
// при следующем опросе.
func (w *RefreshWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(ctx, domain.StreamDatasetRefreshed, w.ConsumerGroup(), w.consumerName, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	tables := make(map[string]struct{})
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)

		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			continue
		}
		for table := range query.FacetColumns {
			if event.Touches(table) {
				tables[table] = struct{}{}
			}
		}
		logger.Info("Dataset refreshed",
			zap.String("message_id", msg.ID),
			zap.String("dataset", event.Dataset),
			zap.Time("refreshed_at", event.RefreshedAt))
	}

	ordered := make([]string, 0, len(tables))
	for t := range tables {
		ordered = append(ordered, t)
	}
	sort.Strings(ordered)

	for _, table := range ordered {
		if err := w.refresher.RefreshAll(ctx, table); err != nil {
			return 0, fmt.Errorf("refresh %s: %w", table, err)
		}
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamDatasetRefreshed, w.ConsumerGroup(), ids); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Info("Batch processed",
		zap.Int("messages", len(messages)),
		zap.Strings("tables", ordered))
	return len(messages), nil
}

func parseMessage(msg domain.StreamMessage) (*domain.DatasetRefreshedEvent, error) {
	var event domain.DatasetRefreshedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}
