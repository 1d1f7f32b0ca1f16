package query

import (
	"strings"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/grid"
)

// ColTotal is the result column of CellCount.
const ColTotal = "total"

// Projection validates the requested detail columns against the record
// allow-list. An empty request selects every column.
func Projection(columns []string) ([]string, error) {
	if len(columns) == 0 {
		return append([]string(nil), domain.IncidentColumns...), nil
	}
	seen := make(map[string]struct{}, len(columns))
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !domain.IsIncidentColumn(c) {
			return nil, errors.InvalidColumn(c, domain.IncidentColumns)
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

// CellSummary counts collisions and casualties per severity inside one cell,
// largest bucket first.
func CellSummary(p Predicates, cell grid.Cell, res grid.Resolution) Statement {
	where := cellMembership(p, cell, res)
	sql := `
		SELECT ` + domain.ColumnSeverity + `,
			COUNT(*) AS ` + ColCollisions + `,
			CAST(COALESCE(SUM(` + domain.ColumnCasualties + `), 0) AS BIGINT) AS ` + ColCasualties + `
		FROM ` + domain.IncidentTable + where.Where() + `
		GROUP BY ` + domain.ColumnSeverity + `
		ORDER BY ` + ColCollisions + ` DESC, ` + domain.ColumnSeverity + ` ASC`
	return Statement{SQL: compact(sql), Args: where.Args}
}

// DetailParams selects one page of raw records in a cell.
type DetailParams struct {
	Columns    []string
	OrderBy    domain.DetailOrder
	Descending bool
	Limit      int
	Offset     int
}

// CellDetail returns one page of projected records, ordered by the chosen
// key with collision_index as the final tie-break so pages never overlap.
// Columns must already be validated with Projection.
func CellDetail(p Predicates, cell grid.Cell, res grid.Resolution, params DetailParams) (Statement, error) {
	orderCol, ok := params.OrderBy.Column()
	if !ok {
		return Statement{}, errors.InvalidArgument("unknown order key", map[string]interface{}{
			"order_by": string(params.OrderBy),
			"allowed":  domain.DetailOrders,
		})
	}
	dir := "ASC"
	if params.Descending {
		dir = "DESC"
	}

	where := cellMembership(p, cell, res)
	sql := `
		SELECT ` + strings.Join(params.Columns, ", ") + `
		FROM ` + domain.IncidentTable + where.Where() + `
		ORDER BY ` + orderCol + ` ` + dir
	if orderCol != domain.ColumnCollisionIndex {
		sql += `, ` + domain.ColumnCollisionIndex + ` ASC`
	}
	sql += ` LIMIT ? OFFSET ?`

	args := append(append([]interface{}(nil), where.Args...), params.Limit, params.Offset)
	return Statement{SQL: compact(sql), Args: args}, nil
}

// CellCount counts the records in a cell under the active filters.
func CellCount(p Predicates, cell grid.Cell, res grid.Resolution) Statement {
	where := cellMembership(p, cell, res)
	sql := `SELECT COUNT(*) AS ` + ColTotal + ` FROM ` + domain.IncidentTable + where.Where()
	return Statement{SQL: compact(sql), Args: where.Args}
}
