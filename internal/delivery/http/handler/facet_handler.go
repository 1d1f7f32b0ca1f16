package handler

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/utils"
	"github.com/hotspot-explorer/internal/query"
	"github.com/hotspot-explorer/internal/usecase"
	"github.com/hotspot-explorer/internal/usecase/dto"
)

// FacetHandler - списки значений для фильтров
type FacetHandler struct {
	facetUC *usecase.FacetUseCase
	logger  *zap.Logger
}

func NewFacetHandler(facetUC *usecase.FacetUseCase, logger *zap.Logger) *FacetHandler {
	return &FacetHandler{
		facetUC: facetUC,
		logger:  logger,
	}
}

// List godoc
// @Summary Значения колонки для фильтра
// @Description Самые частые непустые значения колонки (по убыванию частоты, при равенстве по значению). Результат кешируется до явного обновления.
// @Tags Facets
// @Produce json
// @Param table path string true "Таблица" default(geo_events_raw)
// @Param column path string true "Колонка (weather_conditions, light_conditions, road_type, collision_severity)"
// @Param limit query int false "Максимум значений"
// @Success 200 {object} utils.SuccessResponse{data=dto.FacetResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/facets/{table}/{column} [get]
func (h *FacetHandler) List(c *fiber.Ctx) error {
	table, column := c.Params("table"), c.Params("column")

	values, err := h.facetUC.DistinctValues(c.Context(), table, column, c.QueryInt("limit", 0))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.FacetResponse{
		Table:  table,
		Column: column,
		Values: values,
	}, &utils.Meta{Total: int64(len(values))})
}

// Refresh godoc
// @Summary Обновление списков значений
// @Description Сбрасывает кеш и перечитывает списки. Без column обновляются все колонки таблицы, без table - все таблицы.
// @Tags Facets
// @Accept json
// @Produce json
// @Param request body dto.FacetRefreshRequest false "Что обновить"
// @Success 200 {object} utils.SuccessResponse{data=dto.FacetRefreshResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/facets/refresh [post]
func (h *FacetHandler) Refresh(c *fiber.Ctx) error {
	var req dto.FacetRefreshRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	targets := refreshTargets(req)
	resp := dto.FacetRefreshResponse{Refreshed: make([]dto.FacetResponse, 0, len(targets))}
	for _, t := range targets {
		values, err := h.facetUC.Refresh(c.Context(), t.Table, t.Column)
		if err != nil {
			return utils.SendError(c, err)
		}
		resp.Refreshed = append(resp.Refreshed, dto.FacetResponse{
			Table:  t.Table,
			Column: t.Column,
			Values: values,
		})
	}

	h.logger.Info("Facet lists refreshed on request", zap.Int("lists", len(resp.Refreshed)))
	return utils.SendSuccess(c, resp, nil)
}

// refreshTargets expands a refresh request into (table, column) pairs.
// Unknown names are passed through so the use case reports them.
func refreshTargets(req dto.FacetRefreshRequest) []dto.FacetRefreshRequest {
	if req.Column != "" {
		table := req.Table
		if table == "" {
			table = domain.IncidentTable
		}
		return []dto.FacetRefreshRequest{{Table: table, Column: req.Column}}
	}

	tables := make([]string, 0, len(query.FacetColumns))
	for t := range query.FacetColumns {
		if req.Table == "" || t == req.Table {
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		return []dto.FacetRefreshRequest{{Table: req.Table}}
	}
	sort.Strings(tables)

	var out []dto.FacetRefreshRequest
	for _, t := range tables {
		for _, col := range query.FacetColumns[t] {
			out = append(out, dto.FacetRefreshRequest{Table: t, Column: col})
		}
	}
	return out
}
