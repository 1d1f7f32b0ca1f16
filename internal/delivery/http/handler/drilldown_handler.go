package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/utils"
	"github.com/hotspot-explorer/internal/usecase"
	"github.com/hotspot-explorer/internal/usecase/dto"
)

// DrillDownHandler - обработчик детализации ячейки
type DrillDownHandler struct {
	drillDownUC *usecase.DrillDownUseCase
	logger      *zap.Logger
}

func NewDrillDownHandler(drillDownUC *usecase.DrillDownUseCase, logger *zap.Logger) *DrillDownHandler {
	return &DrillDownHandler{
		drillDownUC: drillDownUC,
		logger:      logger,
	}
}

func cellQuery(c *fiber.Ctx, req dto.CellRequest) (usecase.CellQuery, error) {
	criteria, err := req.Filter.ToCriteria()
	if err != nil {
		return usecase.CellQuery{}, err
	}
	return usecase.CellQuery{
		CellID:     c.Params("cell_id"),
		Criteria:   criteria,
		Resolution: resolutionOrDefault(req.Resolution),
	}, nil
}

// Summary godoc
// @Summary Разбивка ячейки по тяжести
// @Description Количество инцидентов и пострадавших по каждой степени тяжести для одной ячейки при тех же фильтрах и разрешении, что и в ранжировании
// @Tags Drill-down
// @Accept json
// @Produce json
// @Param cell_id path string true "Идентификатор ячейки, например 12_-7"
// @Param request body dto.CellRequest true "Фильтры и разрешение"
// @Success 200 {object} utils.SuccessResponse{data=dto.SummaryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/hotspots/cells/{cell_id}/summary [post]
func (h *DrillDownHandler) Summary(c *fiber.Ctx) error {
	var req dto.CellRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	q, err := cellQuery(c, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	summary, err := h.drillDownUC.Summary(c.Context(), q)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.SummaryResponse{
		CellID:     q.CellID,
		Resolution: int(q.Resolution),
		Severities: summary,
	}, nil)
}

// Records godoc
// @Summary Записи ячейки постранично
// @Description Возвращает страницу исходных записей ячейки с выбранными колонками и сортировкой (date, severity, casualties). Порядок внутри равных ключей стабилен по collision_index.
// @Tags Drill-down
// @Accept json
// @Produce json
// @Param cell_id path string true "Идентификатор ячейки"
// @Param request body dto.RecordsRequest true "Фильтры, колонки, сортировка и страница"
// @Success 200 {object} utils.SuccessResponse{data=domain.DetailPage}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/hotspots/cells/{cell_id}/records [post]
func (h *DrillDownHandler) Records(c *fiber.Ctx) error {
	var req dto.RecordsRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	q, err := cellQuery(c, req.CellRequest)
	if err != nil {
		return utils.SendError(c, err)
	}

	orderBy := domain.OrderByDate
	if req.OrderBy != "" {
		orderBy = domain.DetailOrder(req.OrderBy)
	}

	page, err := h.drillDownUC.Detail(c.Context(), usecase.DetailParams{
		CellQuery:  q,
		Columns:    req.Columns,
		OrderBy:    orderBy,
		Descending: req.Descending,
		PageSize:   req.PageSize,
		Offset:     req.Offset,
	})
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, page, &utils.Meta{
		Total:    page.Total,
		PageSize: page.PageSize,
		Offset:   page.Offset,
		HasNext:  page.HasNext,
	})
}
