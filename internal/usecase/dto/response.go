package dto

import (
	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/grid"
)

// RankResponse - результат ранжирования
type RankResponse struct {
	Resolution int              `json:"resolution"`
	Metric     string           `json:"metric"`
	TopK       int              `json:"top_k"`
	Reference  domain.Point     `json:"reference"`
	Radius     *float64         `json:"radius_miles,omitempty"`
	Cells      []domain.CellRow `json:"cells"`
}

// SummaryResponse - разбивка ячейки по тяжести
type SummaryResponse struct {
	CellID     string                   `json:"cell_id"`
	Resolution int                      `json:"resolution"`
	Severities []domain.SeveritySummary `json:"severities"`
}

// LocateResponse - ячейка, содержащая точку
type LocateResponse struct {
	CellID     string       `json:"cell_id"`
	GridX      int64        `json:"grid_x"`
	GridY      int64        `json:"grid_y"`
	Resolution int          `json:"resolution"`
	Centroid   domain.Point `json:"centroid"`
}

// ResolutionsResponse - меню размеров ячеек
type ResolutionsResponse struct {
	Default int           `json:"default"`
	Options []grid.Option `json:"options"`
}

// FacetResponse - список значений для фильтра
type FacetResponse struct {
	Table  string              `json:"table"`
	Column string              `json:"column"`
	Values []domain.FacetValue `json:"values"`
}

// FacetRefreshResponse - какие списки были обновлены
type FacetRefreshResponse struct {
	Refreshed []FacetResponse `json:"refreshed"`
}
