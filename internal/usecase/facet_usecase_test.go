package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
	"github.com/hotspot-explorer/internal/observability"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/repository/cache"
	"github.com/hotspot-explorer/internal/repository/sqlstore/testhelpers"
	"github.com/hotspot-explorer/internal/usecase"
)

var facetNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func road(id, roadType string) testhelpers.Incident {
	inc := testhelpers.At(id, 51.5, -0.12, "2023-01-01", "Slight", 1)
	inc.RoadType = roadType
	return inc
}

func facetFixture(t *testing.T) (*countingStore, *testhelpers.TestDB) {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	testhelpers.MustInsert(t, db.DB(),
		road("F1", "Single carriageway"),
		road("F2", "Single carriageway"),
		road("F3", "Single carriageway"),
		road("F4", "Roundabout"),
		road("F5", "Dual carriageway"),
		road("F6", "Roundabout"),
		road("F7", "Dual carriageway"),
		road("F8", ""),
		road("F9", "   "),
	)
	return &countingStore{RecordStore: db.Store}, db
}

func newFacetUseCase(store repository.RecordStore, cacheRepo repository.CacheRepository) *usecase.FacetUseCase {
	logger := zap.NewNop()
	metrics := observability.NewMetricsForTesting()
	guard := usecase.NewSchemaGuard(store, logger, metrics)
	return usecase.NewFacetUseCase(store, guard, cacheRepo, logger, metrics, clockwork.NewFakeClockAt(facetNow), 30)
}

func newMiniCache(t *testing.T) (repository.CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewCacheRepository(cache.NewRedisForTest(client, zap.NewNop())), mr
}

func values(vs []domain.FacetValue) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Value
	}
	return out
}

func TestFacetUseCase_DistinctValues(t *testing.T) {
	store, _ := facetFixture(t)
	uc := newFacetUseCase(store, nil)

	got, err := uc.DistinctValues(context.Background(), domain.IncidentTable, domain.ColumnRoadType, 30)
	require.NoError(t, err)
	assert.Equal(t, []domain.FacetValue{
		{Value: "Single carriageway", Count: 3},
		{Value: "Dual carriageway", Count: 2},
		{Value: "Roundabout", Count: 2},
	}, got)
}

func TestFacetUseCase_CachesPerColumn(t *testing.T) {
	store, _ := facetFixture(t)
	uc := newFacetUseCase(store, nil)
	ctx := context.Background()

	_, err := uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls())

	// same and smaller limits are served from memory
	_, err = uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 30)
	require.NoError(t, err)
	prefix, err := uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Single carriageway", "Dual carriageway"}, values(prefix))
	assert.Equal(t, 1, store.calls())

	// another column is a separate entry
	_, err = uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnLightConditions, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls())
}

func TestFacetUseCase_LargerLimitReloads(t *testing.T) {
	store, _ := facetFixture(t)
	uc := newFacetUseCase(store, nil)
	ctx := context.Background()

	one, err := uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Single carriageway"}, values(one))

	three, err := uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 3)
	require.NoError(t, err)
	assert.Len(t, three, 3)
	assert.Equal(t, 2, store.calls())

	_, err = uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, store.calls())

	// a list shorter than its limit holds every value of the column
	_, err = uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 50)
	require.NoError(t, err)
	assert.Equal(t, 3, store.calls())
}

func TestFacetUseCase_RefreshIsTheOnlyInvalidation(t *testing.T) {
	store, db := facetFixture(t)
	uc := newFacetUseCase(store, nil)
	ctx := context.Background()

	_, err := uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 30)
	require.NoError(t, err)

	testhelpers.MustInsert(t, db.DB(),
		road("G1", "Roundabout"), road("G2", "Roundabout"), road("G3", "Slip road"))

	stale, err := uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 30)
	require.NoError(t, err)
	assert.Equal(t, "Single carriageway", stale[0].Value)

	fresh, err := uc.Refresh(ctx, domain.IncidentTable, domain.ColumnRoadType)
	require.NoError(t, err)
	assert.Equal(t, []string{"Roundabout", "Single carriageway", "Dual carriageway", "Slip road"}, values(fresh))

	after, err := uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 30)
	require.NoError(t, err)
	assert.Equal(t, fresh, after)
}

func TestFacetUseCase_SharedRedis(t *testing.T) {
	store, db := facetFixture(t)
	cacheRepo, _ := newMiniCache(t)
	ctx := context.Background()

	first := newFacetUseCase(store, cacheRepo)
	want, err := first.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 30)
	require.NoError(t, err)

	otherStore := &countingStore{RecordStore: db.Store}
	second := newFacetUseCase(otherStore, cacheRepo)
	got, err := second.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 30)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 0, otherStore.calls())

	list, err := cacheRepo.GetFacet(ctx, domain.IncidentTable, domain.ColumnRoadType)
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.True(t, facetNow.Equal(list.LoadedAt))
	assert.Equal(t, 30, list.Limit)
}

func TestFacetUseCase_RedisDownFallsBackToStore(t *testing.T) {
	store, _ := facetFixture(t)
	cacheRepo, mr := newMiniCache(t)
	mr.Close()

	uc := newFacetUseCase(store, cacheRepo)
	got, err := uc.DistinctValues(context.Background(), domain.IncidentTable, domain.ColumnRoadType, 30)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestFacetUseCase_ConcurrentMissesLoadOnce(t *testing.T) {
	store, _ := facetFixture(t)
	uc := newFacetUseCase(store, nil)

	var wg sync.WaitGroup
	results := make([][]domain.FacetValue, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := uc.DistinctValues(context.Background(), domain.IncidentTable, domain.ColumnRoadType, 30)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
	assert.Equal(t, 1, store.calls())
}

// gatedStore holds every Execute until release is closed.
type gatedStore struct {
	*countingStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *gatedStore) Execute(ctx context.Context, q string, args ...interface{}) (*domain.ResultSet, error) {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.countingStore.Execute(ctx, q, args...)
}

func TestFacetUseCase_CancelledCallerDoesNotFailOthers(t *testing.T) {
	counting, _ := facetFixture(t)
	store := &gatedStore{countingStore: counting, entered: make(chan struct{}), release: make(chan struct{})}
	uc := newFacetUseCase(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := uc.DistinctValues(ctx, domain.IncidentTable, domain.ColumnRoadType, 30)
		firstErr <- err
	}()
	<-store.entered

	type result struct {
		values []domain.FacetValue
		err    error
	}
	second := make(chan result, 1)
	go func() {
		v, err := uc.DistinctValues(context.Background(), domain.IncidentTable, domain.ColumnRoadType, 30)
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(store.release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, []string{"Single carriageway", "Dual carriageway", "Roundabout"}, values(got.values))
	assert.Equal(t, 1, counting.calls())
}

func TestFacetUseCase_RefreshAll(t *testing.T) {
	store, _ := facetFixture(t)
	uc := newFacetUseCase(store, nil)

	require.NoError(t, uc.RefreshAll(context.Background(), ""))
	assert.Equal(t, 4, store.calls())

	_, err := uc.DistinctValues(context.Background(), domain.IncidentTable, domain.ColumnSeverity, 30)
	require.NoError(t, err)
	assert.Equal(t, 4, store.calls())

	assert.ErrorIs(t, uc.RefreshAll(context.Background(), "users"), errors.ErrInvalidColumn)
}

func TestFacetUseCase_InvalidColumn(t *testing.T) {
	store := new(MockRecordStore)
	uc := newFacetUseCase(store, nil)

	_, err := uc.DistinctValues(context.Background(), domain.IncidentTable, domain.ColumnLatitude, 30)
	assert.ErrorIs(t, err, errors.ErrInvalidColumn)

	_, err = uc.DistinctValues(context.Background(), "pg_user", "usename", 30)
	assert.ErrorIs(t, err, errors.ErrInvalidColumn)

	_, err = uc.Refresh(context.Background(), domain.IncidentTable, "casualties")
	assert.ErrorIs(t, err, errors.ErrInvalidColumn)
}
