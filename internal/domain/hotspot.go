package domain

// Metric names a ranking key for aggregated cells.
type Metric string

const (
	MetricRiskScore  Metric = "risk_score"
	MetricCasualties Metric = "casualties"
	MetricCollisions Metric = "collisions"
)

var Metrics = []Metric{MetricRiskScore, MetricCasualties, MetricCollisions}

func (m Metric) Valid() bool {
	switch m {
	case MetricRiskScore, MetricCasualties, MetricCollisions:
		return true
	}
	return false
}

// CellRow is one populated grid cell with its summary metrics under the
// active filters. Centroid is derived from the grid coordinates, not from
// member points.
type CellRow struct {
	CellID        string  `json:"cell_id"`
	GridX         int64   `json:"grid_x"`
	GridY         int64   `json:"grid_y"`
	Lat           float64 `json:"grid_lat"`
	Lon           float64 `json:"grid_lon"`
	Collisions    int64   `json:"collisions"`
	Casualties    int64   `json:"casualties"`
	Fatal         int64   `json:"fatal"`
	Serious       int64   `json:"serious"`
	Slight        int64   `json:"slight"`
	RiskScore     int64   `json:"risk_score"`
	DistanceMiles float64 `json:"distance_miles"`
}

// Value returns the row's value for the given metric.
func (r CellRow) Value(m Metric) int64 {
	switch m {
	case MetricRiskScore:
		return r.RiskScore
	case MetricCasualties:
		return r.Casualties
	case MetricCollisions:
		return r.Collisions
	}
	return 0
}

// RiskScore weights severity counts: Fatal=3, Serious=2, Slight=1.
func RiskScore(fatal, serious, slight int64) int64 {
	return fatal*SeverityFatal.Weight() + serious*SeveritySerious.Weight() + slight*SeveritySlight.Weight()
}
