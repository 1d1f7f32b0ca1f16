package query

import (
	"strings"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/grid"
)

// Statement is a query ready for the record store. SQL uses '?'
// placeholders; the store rebinds them for its driver.
type Statement struct {
	SQL  string
	Args []interface{}
}

// Binning expressions. Aggregation and drill-down share them so cell
// membership is computed the same way everywhere.
const (
	binLatExpr = "CAST(FLOOR(" + domain.ColumnLatitude + " * ?) AS BIGINT)"
	binLonExpr = "CAST(FLOOR(" + domain.ColumnLongitude + " * ?) AS BIGINT)"

	positionKnown = domain.ColumnLatitude + " IS NOT NULL AND " + domain.ColumnLongitude + " IS NOT NULL"
)

// cellMembership narrows predicates to the records binned into cell.
func cellMembership(p Predicates, cell grid.Cell, res grid.Resolution) Predicates {
	r := int64(res)
	return p.
		With(positionKnown).
		With(binLatExpr+" = ?", r, cell.X).
		With(binLonExpr+" = ?", r, cell.Y)
}

func compact(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
