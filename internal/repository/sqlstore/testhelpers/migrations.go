package testhelpers

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// The date column is TEXT on SQLite so the driver hands back the plain
// 'YYYY-MM-DD' string instead of parsing it.
const (
	createIncidentTablePostgres = `
		CREATE TABLE geo_events_raw (
			collision_index    TEXT PRIMARY KEY,
			latitude           DOUBLE PRECISION,
			longitude          DOUBLE PRECISION,
			date               DATE NOT NULL,
			year               INTEGER NOT NULL,
			month_num          INTEGER NOT NULL,
			collision_severity TEXT NOT NULL,
			weather_conditions TEXT,
			light_conditions   TEXT,
			road_type          TEXT,
			casualties         INTEGER,
			vehicles           INTEGER
		)`

	createIncidentTableSQLite = `
		CREATE TABLE geo_events_raw (
			collision_index    TEXT PRIMARY KEY,
			latitude           REAL,
			longitude          REAL,
			date               TEXT NOT NULL,
			year               INTEGER NOT NULL,
			month_num          INTEGER NOT NULL,
			collision_severity TEXT NOT NULL,
			weather_conditions TEXT,
			light_conditions   TEXT,
			road_type          TEXT,
			casualties         INTEGER,
			vehicles           INTEGER
		)`
)

// CreateIncidentTable creates geo_events_raw in the dialect of db.
func CreateIncidentTable(db *sqlx.DB) error {
	ddl := createIncidentTablePostgres
	if db.DriverName() == "sqlite" {
		ddl = createIncidentTableSQLite
	}
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create geo_events_raw: %w", err)
	}
	return nil
}

func DropIncidentTable(db *sqlx.DB) error {
	if _, err := db.Exec(`DROP TABLE IF EXISTS geo_events_raw`); err != nil {
		return fmt.Errorf("drop geo_events_raw: %w", err)
	}
	return nil
}
