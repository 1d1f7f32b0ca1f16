package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
	"github.com/hotspot-explorer/internal/observability"
	"github.com/hotspot-explorer/internal/pkg/errors"
)

// SchemaGuard проверяет, что таблица происшествий содержит все колонки,
// которые читают запросы. Запоминается только успешная проверка, поэтому
// таблица, созданная после старта, подхватывается следующим запросом.
type SchemaGuard struct {
	store   repository.RecordStore
	logger  *zap.Logger
	metrics *observability.Metrics

	mu       sync.Mutex
	verified bool
}

// NewSchemaGuard создает новый экземпляр SchemaGuard
func NewSchemaGuard(store repository.RecordStore, logger *zap.Logger, metrics *observability.Metrics) *SchemaGuard {
	return &SchemaGuard{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Check возвращает SCHEMA_MISSING со списком отсутствующих колонок или
// QUERY_EXECUTION_ERROR, если каталог не читается.
func (g *SchemaGuard) Check(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.verified {
		return nil
	}

	start := time.Now()
	columns, err := g.store.TableColumns(ctx, domain.IncidentTable)
	g.metrics.ObserveQuery("schema", start, err)
	if err != nil {
		g.logger.Error("Failed to read record table schema", zap.Error(err))
		return errors.QueryExecution("schema", err)
	}

	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[strings.ToLower(c)] = struct{}{}
	}

	var missing []string
	for _, c := range domain.IncidentColumns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		g.logger.Error("Record table schema incomplete",
			zap.String("table", domain.IncidentTable),
			zap.Strings("missing", missing))
		return errors.SchemaMissing(domain.IncidentTable, missing)
	}

	g.verified = true
	g.logger.Info("Record table schema verified", zap.String("table", domain.IncidentTable))
	return nil
}
