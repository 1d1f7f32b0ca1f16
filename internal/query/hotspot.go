package query

import (
	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/grid"
)

// Result columns of AggregateCells.
const (
	ColGridX      = "grid_x"
	ColGridY      = "grid_y"
	ColCollisions = "collisions"
	ColCasualties = "casualties"
	ColFatal      = "fatal"
	ColSerious    = "serious"
	ColSlight     = "slight"
)

// AggregateCells groups every positioned record matching p into grid cells
// and returns per-cell counts. Cell ids, centroids and distances are derived
// by the caller from grid_x/grid_y.
func AggregateCells(p Predicates, res grid.Resolution) Statement {
	r := int64(res)
	inner := p.With(positionKnown)

	sql := `
		SELECT ` + ColGridX + `, ` + ColGridY + `,
			COUNT(*) AS ` + ColCollisions + `,
			CAST(COALESCE(SUM(` + domain.ColumnCasualties + `), 0) AS BIGINT) AS ` + ColCasualties + `,
			SUM(CASE WHEN ` + domain.ColumnSeverity + ` = ? THEN 1 ELSE 0 END) AS ` + ColFatal + `,
			SUM(CASE WHEN ` + domain.ColumnSeverity + ` = ? THEN 1 ELSE 0 END) AS ` + ColSerious + `,
			SUM(CASE WHEN ` + domain.ColumnSeverity + ` = ? THEN 1 ELSE 0 END) AS ` + ColSlight + `
		FROM (
			SELECT ` + binLatExpr + ` AS ` + ColGridX + `,
				` + binLonExpr + ` AS ` + ColGridY + `,
				` + domain.ColumnSeverity + `,
				` + domain.ColumnCasualties + `
			FROM ` + domain.IncidentTable + inner.Where() + `
		) binned
		GROUP BY ` + ColGridX + `, ` + ColGridY

	args := []interface{}{
		string(domain.SeverityFatal),
		string(domain.SeveritySerious),
		string(domain.SeveritySlight),
		r, r,
	}
	args = append(args, inner.Args...)

	return Statement{SQL: compact(sql), Args: args}
}
