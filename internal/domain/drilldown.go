package domain

// SeveritySummary is one severity bucket of a drilled-down cell.
type SeveritySummary struct {
	Severity   string `json:"collision_severity"`
	Collisions int64  `json:"collisions"`
	Casualties int64  `json:"casualties"`
}

// DetailOrder is the ordering key for drill-down detail pages.
type DetailOrder string

const (
	OrderByDate       DetailOrder = "date"
	OrderBySeverity   DetailOrder = "severity"
	OrderByCasualties DetailOrder = "casualties"
)

var DetailOrders = []DetailOrder{OrderByDate, OrderBySeverity, OrderByCasualties}

// Column returns the record column backing the order key.
func (o DetailOrder) Column() (string, bool) {
	switch o {
	case OrderByDate:
		return ColumnDate, true
	case OrderBySeverity:
		return ColumnSeverity, true
	case OrderByCasualties:
		return ColumnCasualties, true
	}
	return "", false
}

// Record is a projected incident row keyed by column name.
type Record map[string]interface{}

// DetailPage is one page of raw records for a cell.
type DetailPage struct {
	CellID   string   `json:"cell_id"`
	Columns  []string `json:"columns"`
	Records  []Record `json:"records"`
	PageSize int      `json:"page_size"`
	Offset   int      `json:"offset"`
	Total    int64    `json:"total"`
	HasNext  bool     `json:"has_next"`
}
