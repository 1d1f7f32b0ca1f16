package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadiusQueryState_MoveReferenceInvalidates(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := RadiusQueryState{
		Reference:   Point{Lat: 51.5074, Lon: -0.1278},
		RadiusMiles: 10,
		Enabled:     true,
	}
	assert.False(t, s.Runnable())

	s.Confirm(now)
	assert.True(t, s.Runnable())

	// radius changes keep the confirmation
	s.SetRadius(5, now)
	assert.True(t, s.Confirmed)

	// same point again is not a change
	s.MoveReference(Point{Lat: 51.5074, Lon: -0.1278}, now)
	assert.True(t, s.Confirmed)

	s.MoveReference(Point{Lat: 53.4808, Lon: -2.2426}, now.Add(time.Minute))
	assert.False(t, s.Confirmed)
	assert.False(t, s.Runnable())
	assert.Equal(t, now.Add(time.Minute), s.UpdatedAt)

	s.SetEnabled(false, now)
	assert.True(t, s.Runnable(), "disabled radius never blocks aggregation")
}

func TestCriteria_SeverityPresence(t *testing.T) {
	c := ForYear(2023)
	assert.False(t, c.SeverityConstrained())

	empty := c.WithSeverities()
	assert.True(t, empty.SeverityConstrained())
	assert.Empty(t, empty.Severities)

	literal := Criteria{Time: c.Time, Severities: []Severity{}}
	assert.True(t, literal.SeverityConstrained())
	assert.False(t, Criteria{Time: c.Time}.SeverityConstrained())

	// copies do not share backing arrays
	withCond := empty.WithCondition(ColumnRoadType, "Dual carriageway")
	assert.Empty(t, empty.Conditions)
	assert.Len(t, withCond.Conditions, 1)
}

func TestCellRow_Value(t *testing.T) {
	row := CellRow{Collisions: 3, Casualties: 5, RiskScore: RiskScore(2, 0, 1)}
	assert.Equal(t, int64(7), row.Value(MetricRiskScore))
	assert.Equal(t, int64(5), row.Value(MetricCasualties))
	assert.Equal(t, int64(3), row.Value(MetricCollisions))
	assert.False(t, Metric("speed").Valid())
}

func TestResultSet_Accessors(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"gx", "casualties", "sev", "lat"},
		Rows: [][]interface{}{
			{int64(12), nil, []byte("Fatal"), 51.5},
			{"7", int32(4), "Slight", "-0.25"},
		},
	}

	gx, err := rs.Int64(0, "gx")
	require.NoError(t, err)
	assert.Equal(t, int64(12), gx)

	cas, err := rs.Int64(0, "casualties")
	require.NoError(t, err)
	assert.Zero(t, cas)

	sev, err := rs.String(0, "sev")
	require.NoError(t, err)
	assert.Equal(t, "Fatal", sev)

	gx, err = rs.Int64(1, "gx")
	require.NoError(t, err)
	assert.Equal(t, int64(7), gx)

	lat, err := rs.Float64(1, "lat")
	require.NoError(t, err)
	assert.Equal(t, -0.25, lat)

	_, err = rs.Int64(0, "missing")
	assert.Error(t, err)

	rec := rs.Record(0)
	assert.Equal(t, "Fatal", rec["sev"])
}
