package testhelpers

import (
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
)

// Incident is one row of geo_events_raw.
type Incident struct {
	CollisionIndex string   `db:"collision_index"`
	Latitude       *float64 `db:"latitude"`
	Longitude      *float64 `db:"longitude"`
	Date           string   `db:"date"`
	Year           int      `db:"year"`
	Month          int      `db:"month_num"`
	Severity       string   `db:"collision_severity"`
	Weather        string   `db:"weather_conditions"`
	Light          string   `db:"light_conditions"`
	RoadType       string   `db:"road_type"`
	Casualties     int      `db:"casualties"`
	Vehicles       int      `db:"vehicles"`
}

const insertIncident = `
	INSERT INTO geo_events_raw (
		collision_index, latitude, longitude, date, year, month_num,
		collision_severity, weather_conditions, light_conditions, road_type,
		casualties, vehicles
	) VALUES (
		:collision_index, :latitude, :longitude, :date, :year, :month_num,
		:collision_severity, :weather_conditions, :light_conditions, :road_type,
		:casualties, :vehicles
	)`

// InsertIncidents loads incidents in one transaction.
func InsertIncidents(db *sqlx.DB, incidents ...Incident) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, inc := range incidents {
		if _, err := tx.NamedExec(insertIncident, inc); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s: %w", inc.CollisionIndex, err)
		}
	}
	return tx.Commit()
}

// MustInsert is InsertIncidents failing the test on error.
func MustInsert(t *testing.T, db *sqlx.DB, incidents ...Incident) {
	t.Helper()
	if err := InsertIncidents(db, incidents...); err != nil {
		t.Fatalf("Failed to load fixtures: %v", err)
	}
}

func f64(v float64) *float64 { return &v }

// At builds an incident positioned at lat/lon on date (YYYY-MM-DD).
func At(id string, lat, lon float64, date, severity string, casualties int) Incident {
	var year, month int
	_, _ = fmt.Sscanf(date, "%d-%d", &year, &month)
	return Incident{
		CollisionIndex: id,
		Latitude:       f64(lat),
		Longitude:      f64(lon),
		Date:           date,
		Year:           year,
		Month:          month,
		Severity:       severity,
		Weather:        "Fine no high winds",
		Light:          "Daylight",
		RoadType:       "Single carriageway",
		Casualties:     casualties,
		Vehicles:       2,
	}
}

// Unpositioned builds an incident with no coordinates.
func Unpositioned(id, date, severity string) Incident {
	inc := At(id, 0, 0, date, severity, 1)
	inc.Latitude = nil
	inc.Longitude = nil
	return inc
}

// ScenarioResolution is the grid used by ScenarioIncidents.
const ScenarioResolution = 100

// ScenarioIncidents is the reference data set: at 100 cells per degree,
// cell 12_7 holds two Fatal and one Slight 2023 records and cell 12_8 holds
// one Serious 2023 record. Noise rows sit in another year or have no
// position.
func ScenarioIncidents() []Incident {
	return []Incident{
		At("2023-A1", 0.1251, 0.0751, "2023-03-04", "Fatal", 2),
		At("2023-A2", 0.1255, 0.0755, "2023-06-11", "Fatal", 1),
		At("2023-A3", 0.1259, 0.0759, "2023-09-30", "Slight", 1),
		At("2023-B1", 0.1250, 0.0850, "2023-02-14", "Serious", 3),
		At("2022-A1", 0.1252, 0.0752, "2022-12-31", "Fatal", 4),
		Unpositioned("2023-N1", "2023-05-05", "Fatal"),
	}
}
