package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/pkg/utils"
	"github.com/hotspot-explorer/internal/usecase"
	"github.com/hotspot-explorer/internal/usecase/dto"
)

// SessionHandler - состояние радиусного фильтра сессии анализа
type SessionHandler struct {
	radiusUC *usecase.RadiusUseCase
	logger   *zap.Logger
}

func NewSessionHandler(radiusUC *usecase.RadiusUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		radiusUC: radiusUC,
		logger:   logger,
	}
}

// Create godoc
// @Summary Новая сессия анализа
// @Description Создаёт сессию с опорной точкой и радиусом по умолчанию; радиусный фильтр выключен и не подтверждён
// @Tags Sessions
// @Produce json
// @Success 201 {object} utils.SuccessResponse{data=domain.RadiusQueryState}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	state, err := h.radiusUC.Create(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, state, nil)
}

// GetRadius godoc
// @Summary Состояние радиусного фильтра
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=domain.RadiusQueryState}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/radius [get]
func (h *SessionHandler) GetRadius(c *fiber.Ctx) error {
	state, err := h.radiusUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, state, nil)
}

// MoveReference godoc
// @Summary Перемещение опорной точки
// @Description Новая точка сбрасывает подтверждение: радиусный запрос нужно подтвердить заново
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.ReferenceRequest true "Опорная точка"
// @Success 200 {object} utils.SuccessResponse{data=domain.RadiusQueryState}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/radius/reference [put]
func (h *SessionHandler) MoveReference(c *fiber.Ctx) error {
	var req dto.ReferenceRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.radiusUC.MoveReference(c.Context(), c.Params("id"), req.Reference.ToDomain())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, state, nil)
}

// UpdateRadius godoc
// @Summary Радиус и включение фильтра
// @Description Изменение радиуса (0.1..100 миль) или включение фильтра не сбрасывает подтверждение
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.RadiusUpdateRequest true "Радиус и/или флаг"
// @Success 200 {object} utils.SuccessResponse{data=domain.RadiusQueryState}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/radius [put]
func (h *SessionHandler) UpdateRadius(c *fiber.Ctx) error {
	var req dto.RadiusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.radiusUC.Update(c.Context(), c.Params("id"), req.RadiusMiles, req.Enabled)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, state, nil)
}

// Confirm godoc
// @Summary Подтверждение радиусного запроса
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=domain.RadiusQueryState}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/radius/confirm [post]
func (h *SessionHandler) Confirm(c *fiber.Ctx) error {
	state, err := h.radiusUC.Confirm(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	h.logger.Debug("Radius query confirmed", zap.String("session_id", state.SessionID))
	return utils.SendSuccess(c, state, nil)
}
