package usecase_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
	"github.com/hotspot-explorer/internal/observability"
	"github.com/hotspot-explorer/internal/repository/sqlstore/testhelpers"
	"github.com/hotspot-explorer/internal/usecase"
)

var london = domain.Point{Lat: 51.5074, Lon: -0.1278}

// MockRecordStore is a mock of RecordStore
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Execute(ctx context.Context, q string, args ...interface{}) (*domain.ResultSet, error) {
	called := m.Called(ctx, q, args)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).(*domain.ResultSet), called.Error(1)
}

func (m *MockRecordStore) TableColumns(ctx context.Context, table string) ([]string, error) {
	called := m.Called(ctx, table)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).([]string), called.Error(1)
}

// countingStore counts Execute calls on a real store.
type countingStore struct {
	repository.RecordStore
	executed atomic.Int32
}

func (s *countingStore) Execute(ctx context.Context, q string, args ...interface{}) (*domain.ResultSet, error) {
	s.executed.Add(1)
	return s.RecordStore.Execute(ctx, q, args...)
}

func (s *countingStore) calls() int {
	return int(s.executed.Load())
}

// scenarioStore returns an in-memory store loaded with the reference data set.
func scenarioStore(t *testing.T) *countingStore {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	testhelpers.MustInsert(t, db.DB(), testhelpers.ScenarioIncidents()...)
	return &countingStore{RecordStore: db.Store}
}

func newHotspotUseCase(store repository.RecordStore) *usecase.HotspotUseCase {
	logger := zap.NewNop()
	metrics := observability.NewMetricsForTesting()
	guard := usecase.NewSchemaGuard(store, logger, metrics)
	return usecase.NewHotspotUseCase(store, guard, logger, metrics, 200)
}

func newDrillDownUseCase(store repository.RecordStore) *usecase.DrillDownUseCase {
	logger := zap.NewNop()
	metrics := observability.NewMetricsForTesting()
	guard := usecase.NewSchemaGuard(store, logger, metrics)
	return usecase.NewDrillDownUseCase(store, guard, logger, metrics, 500)
}

// mockStoreWithSchema is a mock store whose schema check passes.
func mockStoreWithSchema() *MockRecordStore {
	store := new(MockRecordStore)
	store.On("TableColumns", mock.Anything, domain.IncidentTable).Return(domain.IncidentColumns, nil)
	return store
}

func mustDate(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
