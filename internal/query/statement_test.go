package query

import (
	"strings"
	"testing"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeholdersMatch(t *testing.T, st Statement) {
	t.Helper()
	assert.Equal(t, len(st.Args), strings.Count(st.SQL, "?"), st.SQL)
}

func TestAggregateCells(t *testing.T) {
	p, err := BuildPredicates(domain.ForYear(2023).WithSeverities(domain.SeverityFatal))
	require.NoError(t, err)

	st := AggregateCells(p, grid.DefaultResolution)
	placeholdersMatch(t, st)

	assert.Contains(t, st.SQL, "GROUP BY grid_x, grid_y")
	assert.Contains(t, st.SQL, "latitude IS NOT NULL AND longitude IS NOT NULL")
	assert.Equal(t, []interface{}{"Fatal", "Serious", "Slight", int64(1113), int64(1113), 2023, "Fatal"}, st.Args)
}

func TestCellStatementsShareBinning(t *testing.T) {
	p, err := BuildPredicates(domain.ForYear(2023))
	require.NoError(t, err)
	cell := grid.Cell{X: 12, Y: -7}

	summary := CellSummary(p, cell, 100)
	count := CellCount(p, cell, 100)
	detail, err := CellDetail(p, cell, 100, DetailParams{
		Columns: domain.IncidentColumns,
		OrderBy: domain.OrderByDate,
		Limit:   2,
		Offset:  0,
	})
	require.NoError(t, err)

	for _, st := range []Statement{summary, count, detail} {
		placeholdersMatch(t, st)
		assert.Contains(t, st.SQL, binLatExpr+" = ?")
		assert.Contains(t, st.SQL, binLonExpr+" = ?")
	}

	assert.Equal(t, []interface{}{2023, int64(100), int64(12), int64(100), int64(-7)}, count.Args)
	assert.Contains(t, summary.SQL, "ORDER BY collisions DESC, collision_severity ASC")
}

func TestCellDetail_Ordering(t *testing.T) {
	p, err := BuildPredicates(domain.ForYear(2023))
	require.NoError(t, err)

	st, err := CellDetail(p, grid.Cell{}, 100, DetailParams{
		Columns:    []string{domain.ColumnCollisionIndex, domain.ColumnCasualties},
		OrderBy:    domain.OrderByCasualties,
		Descending: true,
		Limit:      10,
		Offset:     20,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(st.SQL, "SELECT collision_index, casualties FROM geo_events_raw"))
	assert.Contains(t, st.SQL, "ORDER BY casualties DESC, collision_index ASC LIMIT ? OFFSET ?")
	assert.Equal(t, 10, st.Args[len(st.Args)-2])
	assert.Equal(t, 20, st.Args[len(st.Args)-1])

	_, err = CellDetail(p, grid.Cell{}, 100, DetailParams{OrderBy: "speed", Limit: 1})
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestProjection(t *testing.T) {
	cols, err := Projection(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.IncidentColumns, cols)

	cols, err = Projection([]string{"date", "casualties", "date"})
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "casualties"}, cols)

	_, err = Projection([]string{"date", "driver_name"})
	assert.ErrorIs(t, err, errors.ErrInvalidColumn)
}

func TestDistinctValues(t *testing.T) {
	st, err := DistinctValues(domain.IncidentTable, domain.ColumnRoadType, 30)
	require.NoError(t, err)
	placeholdersMatch(t, st)
	assert.Contains(t, st.SQL, "ORDER BY n DESC, value ASC")
	assert.Equal(t, []interface{}{30}, st.Args)

	_, err = DistinctValues(domain.IncidentTable, domain.ColumnLatitude, 30)
	assert.ErrorIs(t, err, errors.ErrInvalidColumn)

	_, err = DistinctValues("users", domain.ColumnRoadType, 30)
	assert.ErrorIs(t, err, errors.ErrInvalidColumn)

	_, err = DistinctValues(domain.IncidentTable, domain.ColumnRoadType, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}
