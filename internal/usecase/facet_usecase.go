package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
	"github.com/hotspot-explorer/internal/observability"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/query"
)

type facetKey struct {
	table  string
	column string
}

// FacetUseCase отдает списки значений для фильтров. Списки кешируются в памяти
// и в Redis и перезагружаются только через Refresh или когда запрошено больше
// значений, чем хранится в кеше.
type FacetUseCase struct {
	store        repository.RecordStore
	guard        *SchemaGuard
	cache        repository.CacheRepository
	logger       *zap.Logger
	metrics      *observability.Metrics
	clock        clockwork.Clock
	defaultLimit int

	mu    sync.RWMutex
	lists map[facetKey]*domain.FacetList
	group singleflight.Group
}

// NewFacetUseCase создает новый экземпляр FacetUseCase. cache может быть nil,
// тогда используется только кеш в памяти.
func NewFacetUseCase(
	store repository.RecordStore,
	guard *SchemaGuard,
	cache repository.CacheRepository,
	logger *zap.Logger,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	defaultLimit int,
) *FacetUseCase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FacetUseCase{
		store:        store,
		guard:        guard,
		cache:        cache,
		logger:       logger,
		metrics:      metrics,
		clock:        clock,
		defaultLimit: defaultLimit,
		lists:        make(map[facetKey]*domain.FacetList),
	}
}

// DistinctValues возвращает до limit непустых значений table.column по убыванию
// частоты, при равенстве по значению. limit <= 0 - значение по умолчанию.
func (uc *FacetUseCase) DistinctValues(ctx context.Context, table, column string, limit int) ([]domain.FacetValue, error) {
	if err := query.ValidateFacet(table, column); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	key := facetKey{table: table, column: column}

	if list := uc.memory(key); list != nil && list.Covers(limit) {
		uc.metrics.FacetLookup(observability.FacetMemoryHit)
		return list.Prefix(limit).Values, nil
	}

	// waiters share one load; a cancelled caller stops waiting, the load goes on
	shared := context.WithoutCancel(ctx)
	ch := uc.group.DoChan(fmt.Sprintf("%s.%s:%d", table, column, limit), func() (interface{}, error) {
		// a load that finished since the check above
		if list := uc.memory(key); list != nil && list.Covers(limit) {
			uc.metrics.FacetLookup(observability.FacetMemoryHit)
			return list, nil
		}
		if list := uc.fromRedis(shared, key, limit); list != nil {
			uc.metrics.FacetLookup(observability.FacetRedisHit)
			uc.remember(list, false)
			return list, nil
		}

		uc.metrics.FacetLookup(observability.FacetMiss)
		list, err := uc.load(shared, key, limit)
		if err != nil {
			return nil, err
		}
		uc.remember(list, false)
		uc.publish(shared, list)
		return list, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Val.(*domain.FacetList).Prefix(limit).Values, nil
}

// Refresh сбрасывает оба уровня кеша для table.column и загружает список
// наибольшего запрошенного размера.
func (uc *FacetUseCase) Refresh(ctx context.Context, table, column string) ([]domain.FacetValue, error) {
	if err := query.ValidateFacet(table, column); err != nil {
		return nil, err
	}
	key := facetKey{table: table, column: column}

	limit := uc.defaultLimit
	if list := uc.memory(key); list != nil && list.Limit > limit {
		limit = list.Limit
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteFacet(ctx, table, column); err != nil {
			uc.logger.Warn("Failed to drop cached facet list",
				zap.String("table", table),
				zap.String("column", column),
				zap.Error(err))
		}
	}

	list, err := uc.load(ctx, key, limit)
	if err != nil {
		return nil, err
	}
	uc.remember(list, true)
	uc.publish(ctx, list)
	uc.metrics.FacetRefreshed()

	uc.logger.Info("Facet list refreshed",
		zap.String("table", table),
		zap.String("column", column),
		zap.Int("values", len(list.Values)))
	return list.Values, nil
}

// RefreshAll обновляет все разрешенные фасеты таблицы, или всех таблиц,
// если table пустая.
func (uc *FacetUseCase) RefreshAll(ctx context.Context, table string) error {
	tables := make([]string, 0, len(query.FacetColumns))
	for t := range query.FacetColumns {
		if table == "" || t == table {
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		return errors.InvalidColumn(table, nil)
	}
	sort.Strings(tables)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for _, t := range tables {
		for _, c := range query.FacetColumns[t] {
			t, c := t, c
			g.Go(func() error {
				_, err := uc.Refresh(gctx, t, c)
				return err
			})
		}
	}
	return g.Wait()
}

func (uc *FacetUseCase) memory(key facetKey) *domain.FacetList {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.lists[key]
}

// remember keeps the larger of the cached and the new list unless force is set.
func (uc *FacetUseCase) remember(list *domain.FacetList, force bool) {
	key := facetKey{table: list.Table, column: list.Column}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if cur, ok := uc.lists[key]; ok && !force && cur.Limit > list.Limit {
		return
	}
	uc.lists[key] = list
}

func (uc *FacetUseCase) fromRedis(ctx context.Context, key facetKey, limit int) *domain.FacetList {
	if uc.cache == nil {
		return nil
	}
	list, err := uc.cache.GetFacet(ctx, key.table, key.column)
	if err != nil {
		uc.logger.Warn("Facet cache unavailable, reading from store",
			zap.String("table", key.table),
			zap.String("column", key.column),
			zap.Error(err))
		return nil
	}
	if list == nil || !list.Covers(limit) {
		return nil
	}
	return list
}

func (uc *FacetUseCase) publish(ctx context.Context, list *domain.FacetList) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.SetFacet(ctx, list); err != nil {
		uc.logger.Warn("Failed to store facet list in cache",
			zap.String("table", list.Table),
			zap.String("column", list.Column),
			zap.Error(err))
	}
}

func (uc *FacetUseCase) load(ctx context.Context, key facetKey, limit int) (*domain.FacetList, error) {
	st, err := query.DistinctValues(key.table, key.column, limit)
	if err != nil {
		return nil, err
	}
	if err := uc.guard.Check(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	rs, err := uc.store.Execute(ctx, st.SQL, st.Args...)
	uc.metrics.ObserveQuery("facet", start, err)
	if err != nil {
		uc.logger.Error("Facet query failed",
			zap.String("table", key.table),
			zap.String("column", key.column),
			zap.Error(err))
		return nil, errors.QueryExecution("facet", err)
	}

	values := make([]domain.FacetValue, 0, rs.Len())
	for i := 0; i < rs.Len(); i++ {
		v, err := rs.String(i, query.ColValue)
		if err != nil {
			return nil, errors.QueryExecution("facet", err)
		}
		n, err := rs.Int64(i, query.ColCount)
		if err != nil {
			return nil, errors.QueryExecution("facet", err)
		}
		values = append(values, domain.FacetValue{Value: v, Count: n})
	}

	return &domain.FacetList{
		Table:    key.table,
		Column:   key.column,
		Limit:    limit,
		Values:   values,
		LoadedAt: uc.clock.Now().UTC(),
	}, nil
}
