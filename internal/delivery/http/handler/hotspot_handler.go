package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/grid"
	"github.com/hotspot-explorer/internal/pkg/utils"
	"github.com/hotspot-explorer/internal/pkg/validator"
	"github.com/hotspot-explorer/internal/usecase"
	"github.com/hotspot-explorer/internal/usecase/dto"
)

// HotspotHandler - обработчик ранжирования ячеек
type HotspotHandler struct {
	hotspotUC *usecase.HotspotUseCase
	radiusUC  *usecase.RadiusUseCase
	defaults  usecase.RadiusDefaults
	logger    *zap.Logger
}

// NewHotspotHandler - создание нового HotspotHandler
func NewHotspotHandler(
	hotspotUC *usecase.HotspotUseCase,
	radiusUC *usecase.RadiusUseCase,
	defaults usecase.RadiusDefaults,
	logger *zap.Logger,
) *HotspotHandler {
	return &HotspotHandler{
		hotspotUC: hotspotUC,
		radiusUC:  radiusUC,
		defaults:  defaults,
		logger:    logger,
	}
}

func resolutionOrDefault(r int) grid.Resolution {
	if r == 0 {
		return grid.DefaultResolution
	}
	return grid.Resolution(r)
}

func parseBody(c *fiber.Ctx, req interface{}) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"body": "malformed JSON",
			}).WithCause(err)
		}
	}
	return validator.Validate(req)
}

// Resolutions godoc
// @Summary Меню размеров ячеек
// @Description Возвращает допустимые разрешения сетки (ячеек на градус) и значение по умолчанию
// @Tags Hotspots
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ResolutionsResponse}
// @Router /api/v1/hotspots/resolutions [get]
func (h *HotspotHandler) Resolutions(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.ResolutionsResponse{
		Default: int(grid.DefaultResolution),
		Options: grid.Menu,
	}, nil)
}

// Locate godoc
// @Summary Ячейка по координатам
// @Description Возвращает идентификатор и центр ячейки, содержащей точку
// @Tags Hotspots
// @Produce json
// @Param lat query number true "Широта"
// @Param lon query number true "Долгота"
// @Param resolution query int false "Ячеек на градус" default(1113)
// @Success 200 {object} utils.SuccessResponse{data=dto.LocateResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/hotspots/locate [get]
func (h *HotspotHandler) Locate(c *fiber.Ctx) error {
	var req dto.Point
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithCause(err))
	}
	if c.Query("lat") == "" || c.Query("lon") == "" {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"query": "lat and lon are required",
		}))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	res := resolutionOrDefault(c.QueryInt("resolution", 0))
	if err := grid.Validate(res); err != nil {
		return utils.SendError(c, err)
	}

	cell := grid.Bin(req.Lat, req.Lon, res)
	return utils.SendSuccess(c, dto.LocateResponse{
		CellID:     cell.ID(),
		GridX:      cell.X,
		GridY:      cell.Y,
		Resolution: int(res),
		Centroid:   cell.Centroid(res),
	}, nil)
}

// Rank godoc
// @Summary Ранжирование ячеек
// @Description Агрегирует инциденты по ячейкам сетки под фильтрами и возвращает top-K по метрике (risk_score, casualties, collisions). Радиус применяется до ранжирования. С session_id опорная точка и радиус берутся из сессии, а неподтверждённый радиус отклоняется с 409.
// @Tags Hotspots
// @Accept json
// @Produce json
// @Param request body dto.RankRequest true "Фильтры, метрика и top-K"
// @Success 200 {object} utils.SuccessResponse{data=dto.RankResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/hotspots/rank [post]
func (h *HotspotHandler) Rank(c *fiber.Ctx) error {
	var req dto.RankRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	criteria, err := req.Filter.ToCriteria()
	if err != nil {
		return utils.SendError(c, err)
	}

	params := usecase.RankParams{
		AggregateParams: usecase.AggregateParams{
			Criteria:    criteria,
			Resolution:  resolutionOrDefault(req.Resolution),
			Reference:   h.defaults.Reference,
			RadiusMiles: req.RadiusMiles,
		},
		Metric: domain.MetricRiskScore,
		TopK:   dto.DefaultTopK,
	}
	if req.Metric != "" {
		params.Metric = domain.Metric(req.Metric)
	}
	if req.TopK != nil {
		params.TopK = *req.TopK
	}
	if req.Reference != nil {
		params.Reference = req.Reference.ToDomain()
	}

	var cells []domain.CellRow
	if req.SessionID != "" {
		state, err := h.radiusUC.Get(c.Context(), req.SessionID)
		if err != nil {
			return utils.SendError(c, err)
		}
		cells, err = h.hotspotUC.RankForSession(c.Context(), params, state)
		if err != nil {
			return utils.SendError(c, err)
		}
		params.Reference = state.Reference
		params.RadiusMiles = nil
		if state.Enabled {
			params.RadiusMiles = &state.RadiusMiles
		}
	} else {
		cells, err = h.hotspotUC.Rank(c.Context(), params)
		if err != nil {
			return utils.SendError(c, err)
		}
	}

	return utils.SendSuccess(c, dto.RankResponse{
		Resolution: int(params.Resolution),
		Metric:     string(params.Metric),
		TopK:       params.TopK,
		Reference:  params.Reference,
		Radius:     params.RadiusMiles,
		Cells:      cells,
	}, &utils.Meta{Total: int64(len(cells))})
}
