package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/utils"
)

// RadiusDefaults - начальные значения новой сессии.
type RadiusDefaults struct {
	Reference   domain.Point
	RadiusMiles float64
}

// RadiusUseCase хранит состояние радиусного запроса по сессиям.
type RadiusUseCase struct {
	cache    repository.CacheRepository
	clock    clockwork.Clock
	ttl      time.Duration
	defaults RadiusDefaults
	logger   *zap.Logger
}

// NewRadiusUseCase создает новый экземпляр RadiusUseCase
func NewRadiusUseCase(
	cache repository.CacheRepository,
	clock clockwork.Clock,
	ttl time.Duration,
	defaults RadiusDefaults,
	logger *zap.Logger,
) *RadiusUseCase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RadiusUseCase{
		cache:    cache,
		clock:    clock,
		ttl:      ttl,
		defaults: defaults,
		logger:   logger,
	}
}

// Create создает сессию с опорной точкой по умолчанию, фильтр по радиусу
// выключен и не подтвержден.
func (uc *RadiusUseCase) Create(ctx context.Context) (*domain.RadiusQueryState, error) {
	state := &domain.RadiusQueryState{
		SessionID:   uuid.NewString(),
		Reference:   uc.defaults.Reference,
		RadiusMiles: uc.defaults.RadiusMiles,
		UpdatedAt:   uc.clock.Now().UTC(),
	}
	if err := uc.save(ctx, state); err != nil {
		return nil, err
	}

	uc.logger.Info("Analysis session created", zap.String("session_id", state.SessionID))
	return state, nil
}

// Get возвращает состояние сессии или SESSION_NOT_FOUND.
func (uc *RadiusUseCase) Get(ctx context.Context, sessionID string) (*domain.RadiusQueryState, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, errors.ErrSessionNotFound.WithDetails(map[string]interface{}{"session_id": sessionID})
	}

	state, err := uc.cache.GetRadiusState(ctx, sessionID)
	if err != nil {
		uc.logger.Error("Failed to load radius state", zap.String("session_id", sessionID), zap.Error(err))
		return nil, errors.ErrInternalServer.WithCause(err)
	}
	if state == nil {
		return nil, errors.ErrSessionNotFound.WithDetails(map[string]interface{}{"session_id": sessionID})
	}
	return state, nil
}

// MoveReference переносит опорную точку; новая точка сбрасывает подтверждение.
func (uc *RadiusUseCase) MoveReference(ctx context.Context, sessionID string, p domain.Point) (*domain.RadiusQueryState, error) {
	if err := validateReference(p, nil); err != nil {
		return nil, err
	}
	return uc.update(ctx, sessionID, func(s *domain.RadiusQueryState, now time.Time) {
		s.MoveReference(p, now)
	})
}

// Update меняет радиус и/или флаг включения. Подтверждение не сбрасывается.
func (uc *RadiusUseCase) Update(ctx context.Context, sessionID string, radiusMiles *float64, enabled *bool) (*domain.RadiusQueryState, error) {
	if radiusMiles != nil && !utils.ValidateRadius(*radiusMiles) {
		return nil, errors.InvalidArgument("radius must be between 0.1 and 100 miles", map[string]interface{}{
			"radius_miles": *radiusMiles,
		})
	}
	return uc.update(ctx, sessionID, func(s *domain.RadiusQueryState, now time.Time) {
		if radiusMiles != nil {
			s.SetRadius(*radiusMiles, now)
		}
		if enabled != nil {
			s.SetEnabled(*enabled, now)
		}
	})
}

// SetRadius меняет радиус в милях.
func (uc *RadiusUseCase) SetRadius(ctx context.Context, sessionID string, radiusMiles float64) (*domain.RadiusQueryState, error) {
	return uc.Update(ctx, sessionID, &radiusMiles, nil)
}

// SetEnabled включает или выключает фильтр по радиусу.
func (uc *RadiusUseCase) SetEnabled(ctx context.Context, sessionID string, enabled bool) (*domain.RadiusQueryState, error) {
	return uc.Update(ctx, sessionID, nil, &enabled)
}

// Confirm разрешает агрегацию с радиусом для текущей опорной точки.
func (uc *RadiusUseCase) Confirm(ctx context.Context, sessionID string) (*domain.RadiusQueryState, error) {
	return uc.update(ctx, sessionID, func(s *domain.RadiusQueryState, now time.Time) {
		s.Confirm(now)
	})
}

func (uc *RadiusUseCase) update(ctx context.Context, sessionID string, apply func(*domain.RadiusQueryState, time.Time)) (*domain.RadiusQueryState, error) {
	state, err := uc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	apply(state, uc.clock.Now().UTC())
	if err := uc.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (uc *RadiusUseCase) save(ctx context.Context, state *domain.RadiusQueryState) error {
	if err := uc.cache.SetRadiusState(ctx, state, uc.ttl); err != nil {
		uc.logger.Error("Failed to store radius state",
			zap.String("session_id", state.SessionID),
			zap.Error(err))
		return errors.ErrInternalServer.WithCause(err)
	}
	return nil
}
