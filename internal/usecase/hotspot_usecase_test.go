package usecase_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/grid"
	"github.com/hotspot-explorer/internal/pkg/utils"
	"github.com/hotspot-explorer/internal/repository/sqlstore/testhelpers"
	"github.com/hotspot-explorer/internal/usecase"
)

func scenarioRank(criteria domain.Criteria) usecase.RankParams {
	return usecase.RankParams{
		AggregateParams: usecase.AggregateParams{
			Criteria:   criteria,
			Resolution: testhelpers.ScenarioResolution,
			Reference:  london,
		},
		Metric: domain.MetricRiskScore,
		TopK:   2,
	}
}

func TestHotspotUseCase_RankScenario(t *testing.T) {
	store := scenarioStore(t)
	uc := newHotspotUseCase(store)

	criteria := domain.ForYear(2023).WithSeverities(domain.SeverityFatal, domain.SeveritySerious, domain.SeveritySlight)
	ranked, err := uc.Rank(context.Background(), scenarioRank(criteria))
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, "12_7", ranked[0].CellID)
	assert.Equal(t, int64(7), ranked[0].RiskScore)
	assert.Equal(t, "12_8", ranked[1].CellID)
	assert.Equal(t, int64(2), ranked[1].RiskScore)

	top := ranked[0]
	assert.Equal(t, int64(3), top.Collisions, "unpositioned and 2022 rows are excluded")
	assert.Equal(t, int64(4), top.Casualties)
	assert.Equal(t, int64(2), top.Fatal)
	assert.Equal(t, int64(0), top.Serious)
	assert.Equal(t, int64(1), top.Slight)
	assert.Equal(t, int64(12), top.GridX)
	assert.Equal(t, int64(7), top.GridY)
	assert.InDelta(t, 0.125, top.Lat, 1e-12)
	assert.InDelta(t, 0.075, top.Lon, 1e-12)
	assert.InDelta(t, utils.DistanceMiles(london.Lat, london.Lon, top.Lat, top.Lon), top.DistanceMiles, 1e-9)
}

func TestHotspotUseCase_EmptySeveritySubset(t *testing.T) {
	store := scenarioStore(t)
	uc := newHotspotUseCase(store)

	rows, err := uc.Aggregate(context.Background(), usecase.AggregateParams{
		Criteria:   domain.ForYear(2023).WithSeverities(),
		Resolution: testhelpers.ScenarioResolution,
		Reference:  london,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)

	ranked, err := uc.Rank(context.Background(), scenarioRank(domain.ForYear(2023).WithSeverities()))
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestHotspotUseCase_LiteralSeverityCriteria(t *testing.T) {
	store := scenarioStore(t)
	uc := newHotspotUseCase(store)
	ctx := context.Background()
	year := domain.TimeWindow{Mode: domain.TimeModePeriod, Year: 2023}

	rows, err := uc.Aggregate(ctx, usecase.AggregateParams{
		Criteria:   domain.Criteria{Time: year, Severities: []domain.Severity{}},
		Resolution: testhelpers.ScenarioResolution,
		Reference:  london,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = uc.Aggregate(ctx, usecase.AggregateParams{
		Criteria:   domain.Criteria{Time: year, Severities: []domain.Severity{domain.SeverityFatal}},
		Resolution: testhelpers.ScenarioResolution,
		Reference:  london,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "12_7", rows[0].CellID)
	assert.Equal(t, int64(2), rows[0].Collisions)
	assert.Equal(t, int64(0), rows[0].Slight)
}

func TestHotspotUseCase_SeverityAndConditionFilters(t *testing.T) {
	store := scenarioStore(t)
	uc := newHotspotUseCase(store)
	ctx := context.Background()

	rows, err := uc.Aggregate(ctx, usecase.AggregateParams{
		Criteria:   domain.ForYear(2023).WithSeverities(domain.SeveritySerious),
		Resolution: testhelpers.ScenarioResolution,
		Reference:  london,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "12_8", rows[0].CellID)

	rows, err = uc.Aggregate(ctx, usecase.AggregateParams{
		Criteria:   domain.ForYear(2023).WithCondition(domain.ColumnWeatherConditions, "Snowing no high winds"),
		Resolution: testhelpers.ScenarioResolution,
		Reference:  london,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = uc.Aggregate(ctx, usecase.AggregateParams{
		Criteria:   domain.ForRange(mustDate("2022-12-01"), mustDate("2023-03-31")),
		Resolution: testhelpers.ScenarioResolution,
		Reference:  london,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].Collisions, "2022-12-31 and 2023-03-04 fall in 12_7")
	assert.Equal(t, int64(1), rows[1].Collisions)
}

func TestHotspotUseCase_RankingIsDeterministic(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	// equal risk everywhere so only the tie-break orders the cells
	var incidents []testhelpers.Incident
	for i := 0; i < 40; i++ {
		incidents = append(incidents, testhelpers.At(
			fmt.Sprintf("T%03d", i), 51.0+float64(i)*0.013, -1.0+float64(i%7)*0.021, "2023-04-01", "Serious", 1))
	}
	testhelpers.MustInsert(t, db.DB(), incidents...)
	uc := newHotspotUseCase(db.Store)

	params := usecase.RankParams{
		AggregateParams: usecase.AggregateParams{Criteria: domain.ForYear(2023), Resolution: 100, Reference: london},
		Metric:          domain.MetricRiskScore,
		TopK:            15,
	}
	first, err := uc.Rank(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, first, 15)

	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].CellID, first[i].CellID)
	}

	second, err := uc.Rank(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHotspotUseCase_RadiusSubset(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	r := rand.New(rand.NewSource(42))
	severities := []string{"Fatal", "Serious", "Slight", "Slight", "Slight"}
	var incidents []testhelpers.Incident
	for i := 0; i < 400; i++ {
		incidents = append(incidents, testhelpers.At(
			fmt.Sprintf("R%04d", i),
			51.3+r.Float64()*0.4,
			-0.5+r.Float64()*0.8,
			"2023-08-15",
			severities[r.Intn(len(severities))],
			1+r.Intn(3),
		))
	}
	testhelpers.MustInsert(t, db.DB(), incidents...)
	uc := newHotspotUseCase(db.Store)
	ctx := context.Background()

	base := usecase.AggregateParams{Criteria: domain.ForYear(2023), Resolution: 100, Reference: london}
	all, err := uc.Aggregate(ctx, base)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for _, radius := range []float64{0.5, 2, 5, 10} {
		radius := radius
		t.Run(fmt.Sprintf("%.1f miles", radius), func(t *testing.T) {
			p := base
			p.RadiusMiles = &radius
			within, err := uc.Aggregate(ctx, p)
			require.NoError(t, err)

			expected := make([]domain.CellRow, 0)
			for _, row := range all {
				if row.DistanceMiles <= radius {
					expected = append(expected, row)
				}
			}
			assert.Equal(t, expected, within)
		})
	}
}

func TestHotspotUseCase_FilterThenRank(t *testing.T) {
	store := scenarioStore(t)
	uc := newHotspotUseCase(store)

	// a tight radius around 12_8 must still yield a row even though 12_7
	// ranks higher without the radius
	radius := 0.3
	params := scenarioRank(domain.ForYear(2023))
	params.TopK = 1
	params.Reference = grid.Cell{X: 12, Y: 8}.Centroid(testhelpers.ScenarioResolution)
	params.RadiusMiles = &radius

	ranked, err := uc.Rank(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "12_8", ranked[0].CellID)
	assert.InDelta(t, 0, ranked[0].DistanceMiles, 1e-9)
}

func TestHotspotUseCase_ValidationBeforeStore(t *testing.T) {
	bad := 250.0
	tests := []struct {
		name   string
		params usecase.RankParams
		target error
	}{
		{"unknown metric", func() usecase.RankParams {
			p := scenarioRank(domain.ForYear(2023))
			p.Metric = "danger"
			return p
		}(), errors.ErrInvalidMetric},
		{"zero k", func() usecase.RankParams {
			p := scenarioRank(domain.ForYear(2023))
			p.TopK = 0
			return p
		}(), errors.ErrInvalidArgument},
		{"k above max", func() usecase.RankParams {
			p := scenarioRank(domain.ForYear(2023))
			p.TopK = 201
			return p
		}(), errors.ErrInvalidArgument},
		{"resolution off menu", func() usecase.RankParams {
			p := scenarioRank(domain.ForYear(2023))
			p.Resolution = 123
			return p
		}(), errors.ErrInvalidArgument},
		{"bad filter", scenarioRank(domain.ForMonth(2023, 14)), errors.ErrInvalidFilter},
		{"radius out of range", func() usecase.RankParams {
			p := scenarioRank(domain.ForYear(2023))
			p.RadiusMiles = &bad
			return p
		}(), errors.ErrInvalidArgument},
		{"reference out of range", func() usecase.RankParams {
			p := scenarioRank(domain.ForYear(2023))
			p.Reference = domain.Point{Lat: 91}
			return p
		}(), errors.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockRecordStore)
			uc := newHotspotUseCase(store)

			_, err := uc.Rank(context.Background(), tt.params)
			assert.ErrorIs(t, err, tt.target)
			store.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "TableColumns", mock.Anything, mock.Anything)
		})
	}
}

func TestHotspotUseCase_StoreFailure(t *testing.T) {
	cause := stderrors.New("connection reset by peer")
	store := mockStoreWithSchema()
	store.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(nil, cause).Once()
	uc := newHotspotUseCase(store)

	_, err := uc.Rank(context.Background(), scenarioRank(domain.ForYear(2023)))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrQueryExecution)
	assert.ErrorIs(t, err, cause)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, 502, appErr.StatusCode)
	store.AssertNumberOfCalls(t, "Execute", 1)
}

func TestHotspotUseCase_SchemaMissing(t *testing.T) {
	db := testhelpers.SetupBareSQLite(t)
	uc := newHotspotUseCase(db.Store)
	params := scenarioRank(domain.ForYear(2023))

	_, err := uc.Rank(context.Background(), params)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSchemaMissing)
	appErr, _ := errors.As(err)
	assert.Equal(t, domain.IncidentColumns, appErr.Details["missing"])

	// provisioning after the failure is picked up
	require.NoError(t, testhelpers.CreateIncidentTable(db.DB()))
	testhelpers.MustInsert(t, db.DB(), testhelpers.ScenarioIncidents()...)

	ranked, err := uc.Rank(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestHotspotUseCase_RankForSession(t *testing.T) {
	ctx := context.Background()
	params := scenarioRank(domain.ForYear(2023))
	center := grid.Cell{X: 12, Y: 7}.Centroid(testhelpers.ScenarioResolution)

	t.Run("enabled but unconfirmed is refused", func(t *testing.T) {
		store := new(MockRecordStore)
		uc := newHotspotUseCase(store)
		state := &domain.RadiusQueryState{SessionID: "s1", Reference: center, RadiusMiles: 0.1, Enabled: true}

		_, err := uc.RankForSession(ctx, params, state)
		assert.ErrorIs(t, err, errors.ErrRadiusNotConfirmed)
		appErr, _ := errors.As(err)
		assert.Equal(t, 409, appErr.StatusCode)
		store.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed radius filters", func(t *testing.T) {
		uc := newHotspotUseCase(scenarioStore(t))
		state := &domain.RadiusQueryState{Reference: center, RadiusMiles: 0.1, Enabled: true, Confirmed: true}

		ranked, err := uc.RankForSession(ctx, params, state)
		require.NoError(t, err)
		assert.Equal(t, []string{"12_7"}, ids(ranked))
	})

	t.Run("disabled radius keeps all cells but measures from the session point", func(t *testing.T) {
		uc := newHotspotUseCase(scenarioStore(t))
		state := &domain.RadiusQueryState{Reference: center, RadiusMiles: 0.1}

		ranked, err := uc.RankForSession(ctx, params, state)
		require.NoError(t, err)
		require.Equal(t, []string{"12_7", "12_8"}, ids(ranked))
		assert.InDelta(t, 0, ranked[0].DistanceMiles, 1e-9)
		assert.Greater(t, ranked[1].DistanceMiles, 0.5)
	})
}
