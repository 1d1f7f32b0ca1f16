package domain

// IncidentTable is the raw geo fact table produced by the ETL pipeline.
const IncidentTable = "geo_events_raw"

// Incident record columns.
const (
	ColumnCollisionIndex    = "collision_index"
	ColumnLatitude          = "latitude"
	ColumnLongitude         = "longitude"
	ColumnDate              = "date"
	ColumnYear              = "year"
	ColumnMonth             = "month_num"
	ColumnSeverity          = "collision_severity"
	ColumnWeatherConditions = "weather_conditions"
	ColumnLightConditions   = "light_conditions"
	ColumnRoadType          = "road_type"
	ColumnCasualties        = "casualties"
	ColumnVehicles          = "vehicles"
)

// IncidentColumns lists every column the core reads, in projection order.
// The schema guard requires all of them.
var IncidentColumns = []string{
	ColumnCollisionIndex,
	ColumnLatitude,
	ColumnLongitude,
	ColumnDate,
	ColumnYear,
	ColumnMonth,
	ColumnSeverity,
	ColumnWeatherConditions,
	ColumnLightConditions,
	ColumnRoadType,
	ColumnCasualties,
	ColumnVehicles,
}

// ConditionColumns are the nominal attributes that accept exact-match filters.
var ConditionColumns = []string{
	ColumnWeatherConditions,
	ColumnLightConditions,
	ColumnRoadType,
}

// IsConditionColumn reports whether column is a filterable condition attribute.
func IsConditionColumn(column string) bool {
	for _, c := range ConditionColumns {
		if c == column {
			return true
		}
	}
	return false
}

// IsIncidentColumn reports whether column may be projected in drill-down detail.
func IsIncidentColumn(column string) bool {
	for _, c := range IncidentColumns {
		if c == column {
			return true
		}
	}
	return false
}

type Severity string

const (
	SeverityFatal   Severity = "Fatal"
	SeveritySerious Severity = "Serious"
	SeveritySlight  Severity = "Slight"
)

// Severities in descending order of weight.
var Severities = []Severity{SeverityFatal, SeveritySerious, SeveritySlight}

func (s Severity) Valid() bool {
	switch s {
	case SeverityFatal, SeveritySerious, SeveritySlight:
		return true
	}
	return false
}

// Weight is the severity's contribution to a cell's risk score.
func (s Severity) Weight() int64 {
	switch s {
	case SeverityFatal:
		return 3
	case SeveritySerious:
		return 2
	case SeveritySlight:
		return 1
	}
	return 0
}
