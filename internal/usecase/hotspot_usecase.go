package usecase

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
	"github.com/hotspot-explorer/internal/observability"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/grid"
	"github.com/hotspot-explorer/internal/pkg/utils"
	"github.com/hotspot-explorer/internal/query"
)

// AggregateParams - параметры агрегации: фильтры, разрешение сетки и опорная
// точка, от которой считаются расстояния. RadiusMiles == nil оставляет все ячейки.
type AggregateParams struct {
	Criteria    domain.Criteria
	Resolution  grid.Resolution
	Reference   domain.Point
	RadiusMiles *float64
}

// RankParams - агрегация с последующим отбором top-K.
type RankParams struct {
	AggregateParams
	Metric domain.Metric
	TopK   int
}

// HotspotUseCase агрегирует происшествия по ячейкам сетки и ранжирует их.
type HotspotUseCase struct {
	store   repository.RecordStore
	guard   *SchemaGuard
	logger  *zap.Logger
	metrics *observability.Metrics
	maxTopK int
}

// NewHotspotUseCase создает новый экземпляр HotspotUseCase
func NewHotspotUseCase(
	store repository.RecordStore,
	guard *SchemaGuard,
	logger *zap.Logger,
	metrics *observability.Metrics,
	maxTopK int,
) *HotspotUseCase {
	return &HotspotUseCase{
		store:   store,
		guard:   guard,
		logger:  logger,
		metrics: metrics,
		maxTopK: maxTopK,
	}
}

func validateReference(p domain.Point, radius *float64) error {
	if !utils.ValidateCoordinates(p.Lat, p.Lon) {
		return errors.InvalidArgument("reference point is out of range", map[string]interface{}{
			"lat": p.Lat,
			"lon": p.Lon,
		})
	}
	if radius != nil && !utils.ValidateRadius(*radius) {
		return errors.InvalidArgument("radius must be between 0.1 and 100 miles", map[string]interface{}{
			"radius_miles": *radius,
		})
	}
	return nil
}

// Aggregate возвращает по строке на каждую непустую ячейку, отсортированные по
// cell id. Для каждой строки считается расстояние от центра ячейки до опорной
// точки; при заданном радиусе дальние ячейки отбрасываются.
func (uc *HotspotUseCase) Aggregate(ctx context.Context, p AggregateParams) ([]domain.CellRow, error) {
	if err := grid.Validate(p.Resolution); err != nil {
		return nil, err
	}
	preds, err := query.BuildPredicates(p.Criteria)
	if err != nil {
		return nil, err
	}
	if err := validateReference(p.Reference, p.RadiusMiles); err != nil {
		return nil, err
	}
	if err := uc.guard.Check(ctx); err != nil {
		return nil, err
	}

	st := query.AggregateCells(preds, p.Resolution)
	start := time.Now()
	rs, err := uc.store.Execute(ctx, st.SQL, st.Args...)
	uc.metrics.ObserveQuery("aggregate", start, err)
	if err != nil {
		uc.logger.Error("Aggregation query failed",
			zap.Int("resolution", int(p.Resolution)),
			zap.Error(err))
		return nil, errors.QueryExecution("aggregate", err)
	}

	rows, err := cellRows(rs, p)
	if err != nil {
		uc.logger.Error("Failed to read aggregation result", zap.Error(err))
		return nil, errors.QueryExecution("aggregate", err)
	}

	uc.logger.Debug("Cells aggregated",
		zap.Int("resolution", int(p.Resolution)),
		zap.Int("cells", len(rows)),
		zap.Int("result_rows", rs.Len()))
	return rows, nil
}

func cellRows(rs *domain.ResultSet, p AggregateParams) ([]domain.CellRow, error) {
	rows := make([]domain.CellRow, 0, rs.Len())
	for i := 0; i < rs.Len(); i++ {
		var ints [7]int64
		for j, col := range []string{
			query.ColGridX, query.ColGridY, query.ColCollisions, query.ColCasualties,
			query.ColFatal, query.ColSerious, query.ColSlight,
		} {
			v, err := rs.Int64(i, col)
			if err != nil {
				return nil, err
			}
			ints[j] = v
		}

		cell := grid.Cell{X: ints[0], Y: ints[1]}
		centroid := cell.Centroid(p.Resolution)
		distance := utils.DistanceMiles(p.Reference.Lat, p.Reference.Lon, centroid.Lat, centroid.Lon)
		if p.RadiusMiles != nil && distance > *p.RadiusMiles {
			continue
		}

		rows = append(rows, domain.CellRow{
			CellID:        cell.ID(),
			GridX:         cell.X,
			GridY:         cell.Y,
			Lat:           centroid.Lat,
			Lon:           centroid.Lon,
			Collisions:    ints[2],
			Casualties:    ints[3],
			Fatal:         ints[4],
			Serious:       ints[5],
			Slight:        ints[6],
			RiskScore:     domain.RiskScore(ints[4], ints[5], ints[6]),
			DistanceMiles: distance,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CellID < rows[j].CellID })
	return rows, nil
}

// Rank проверяет параметры ранжирования, агрегирует и возвращает top-K ячеек.
// Фильтр по радиусу применяется до ранжирования.
func (uc *HotspotUseCase) Rank(ctx context.Context, p RankParams) ([]domain.CellRow, error) {
	if err := ValidateRanking(p.Metric, p.TopK, uc.maxTopK); err != nil {
		return nil, err
	}

	rows, err := uc.Aggregate(ctx, p.AggregateParams)
	if err != nil {
		return nil, err
	}

	ranked, err := RankCells(rows, p.Metric, p.TopK)
	if err != nil {
		return nil, err
	}
	uc.metrics.Ranked(len(ranked))
	return ranked, nil
}

// RankForSession ранжирует с опорной точкой и радиусом сессии. Включенный
// радиус без подтверждения после перемещения точки отклоняется без запроса к БД.
func (uc *HotspotUseCase) RankForSession(ctx context.Context, p RankParams, state *domain.RadiusQueryState) ([]domain.CellRow, error) {
	if err := ValidateRanking(p.Metric, p.TopK, uc.maxTopK); err != nil {
		return nil, err
	}
	if !state.Runnable() {
		uc.metrics.RadiusRejection()
		return nil, errors.ErrRadiusNotConfirmed.WithDetails(map[string]interface{}{
			"session_id": state.SessionID,
		})
	}

	p.Reference = state.Reference
	p.RadiusMiles = nil
	if state.Enabled {
		radius := state.RadiusMiles
		p.RadiusMiles = &radius
	}
	return uc.Rank(ctx, p)
}
