package dto

import (
	"time"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
)

// DefaultTopK is the number of cells ranked when a request does not say.
const DefaultTopK = 20

// FilterRequest - фильтры, общие для ранжирования и drill-down
type FilterRequest struct {
	TimeMode   string             `json:"time_mode" validate:"omitempty,oneof=period range" example:"period"`
	Year       int                `json:"year" validate:"omitempty,min=1900,max=2100" example:"2023"`
	Month      int                `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Start      string             `json:"start,omitempty" example:"2023-01-01"`
	End        string             `json:"end,omitempty" example:"2023-12-31"`
	Severities *[]string          `json:"severities,omitempty"` // null = all, [] = none
	Conditions []domain.Condition `json:"conditions,omitempty" validate:"omitempty,max=3,dive"`
}

// ToCriteria converts the request into domain criteria. Semantic checks
// (missing year, reversed range, unknown labels) are left to the filter
// builder so every caller gets the same INVALID_FILTER errors.
func (f FilterRequest) ToCriteria() (domain.Criteria, error) {
	var c domain.Criteria
	switch domain.TimeMode(f.TimeMode) {
	case domain.TimeModeRange:
		c = domain.Criteria{Time: domain.TimeWindow{Mode: domain.TimeModeRange}}
		start, err := parseDate("start", f.Start)
		if err != nil {
			return domain.Criteria{}, err
		}
		end, err := parseDate("end", f.End)
		if err != nil {
			return domain.Criteria{}, err
		}
		c.Time.Start, c.Time.End = start, end
	case domain.TimeModePeriod, "":
		c = domain.ForMonth(f.Year, f.Month)
	default:
		return domain.Criteria{}, errors.InvalidFilter("unknown time mode", map[string]interface{}{
			"field": "time_mode",
			"value": f.TimeMode,
		})
	}

	if f.Severities != nil {
		severities := make([]domain.Severity, 0, len(*f.Severities))
		for _, s := range *f.Severities {
			severities = append(severities, domain.Severity(s))
		}
		c = c.WithSeverities(severities...)
	}
	for _, cond := range f.Conditions {
		c = c.WithCondition(cond.Column, cond.Value)
	}
	return c, nil
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return nil, errors.InvalidFilter("dates must be YYYY-MM-DD", map[string]interface{}{
			"field": "date_range",
			"bound": field,
			"value": value,
		})
	}
	return &t, nil
}

// Point - координаты точки
type Point struct {
	Lat float64 `json:"lat" query:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" query:"lon" validate:"min=-180,max=180"`
}

func (p Point) ToDomain() domain.Point {
	return domain.Point{Lat: p.Lat, Lon: p.Lon}
}

// RankRequest - запрос на ранжирование ячеек
//
// With session_id the reference point and radius come from the session and
// reference/radius_miles are ignored.
type RankRequest struct {
	Filter      FilterRequest `json:"filter"`
	Resolution  int           `json:"resolution,omitempty" example:"1113"`
	Metric      string        `json:"metric,omitempty" example:"risk_score"`
	TopK        *int          `json:"top_k,omitempty" example:"20"`
	Reference   *Point        `json:"reference,omitempty" validate:"omitempty"`
	RadiusMiles *float64      `json:"radius_miles,omitempty"`
	SessionID   string        `json:"session_id,omitempty" validate:"omitempty,uuid"`
}

// CellRequest - фильтры и разрешение, при которых ячейка была получена
type CellRequest struct {
	Filter     FilterRequest `json:"filter"`
	Resolution int           `json:"resolution,omitempty" example:"1113"`
}

// RecordsRequest - запрос страницы записей ячейки
type RecordsRequest struct {
	CellRequest
	Columns    []string `json:"columns,omitempty"`
	OrderBy    string   `json:"order_by,omitempty" example:"date"`
	Descending bool     `json:"descending,omitempty"`
	PageSize   int      `json:"page_size" example:"50"`
	Offset     int      `json:"offset"`
}

// ReferenceRequest - перемещение опорной точки сессии
type ReferenceRequest struct {
	Reference Point `json:"reference" validate:"required"`
}

// RadiusUpdateRequest - изменение радиуса и/или включение фильтра
type RadiusUpdateRequest struct {
	RadiusMiles *float64 `json:"radius_miles,omitempty" example:"10"`
	Enabled     *bool    `json:"enabled,omitempty"`
}

// FacetRefreshRequest - принудительное обновление списков значений
type FacetRefreshRequest struct {
	Table  string `json:"table,omitempty" example:"geo_events_raw"`
	Column string `json:"column,omitempty" example:"weather_conditions"`
}
