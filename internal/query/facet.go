package query

import (
	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
)

// Result columns of DistinctValues.
const (
	ColValue = "value"
	ColCount = "n"
)

// FacetColumns is the allow-list of (table, column) pairs that may be
// enumerated for filter option lists.
var FacetColumns = map[string][]string{
	domain.IncidentTable: {
		domain.ColumnWeatherConditions,
		domain.ColumnLightConditions,
		domain.ColumnRoadType,
		domain.ColumnSeverity,
	},
}

// ValidateFacet checks table and column against FacetColumns.
func ValidateFacet(table, column string) error {
	cols, ok := FacetColumns[table]
	if !ok {
		tables := make([]string, 0, len(FacetColumns))
		for t := range FacetColumns {
			tables = append(tables, t)
		}
		return errors.InvalidColumn(table+"."+column, tables)
	}
	for _, c := range cols {
		if c == column {
			return nil
		}
	}
	return errors.InvalidColumn(column, cols)
}

// DistinctValues lists the most frequent non-blank values of a column,
// ties broken by value.
func DistinctValues(table, column string, limit int) (Statement, error) {
	if err := ValidateFacet(table, column); err != nil {
		return Statement{}, err
	}
	if limit <= 0 {
		return Statement{}, errors.InvalidArgument("limit must be positive", map[string]interface{}{
			"limit": limit,
		})
	}
	sql := `
		SELECT ` + column + ` AS ` + ColValue + `, COUNT(*) AS ` + ColCount + `
		FROM ` + table + `
		WHERE ` + column + ` IS NOT NULL AND TRIM(` + column + `) <> ''
		GROUP BY ` + column + `
		ORDER BY ` + ColCount + ` DESC, ` + ColValue + ` ASC
		LIMIT ?`
	return Statement{SQL: compact(sql), Args: []interface{}{limit}}, nil
}
