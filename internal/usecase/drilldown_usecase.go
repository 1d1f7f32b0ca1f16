package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
	"github.com/hotspot-explorer/internal/observability"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/grid"
	"github.com/hotspot-explorer/internal/query"
)

// CellQuery - ячейка с теми же фильтрами и разрешением, что и в рейтинге.
type CellQuery struct {
	CellID     string
	Criteria   domain.Criteria
	Resolution grid.Resolution
}

// DetailParams - постраничный запрос записей ячейки. PageSize и Offset обязательны.
type DetailParams struct {
	CellQuery
	Columns    []string
	OrderBy    domain.DetailOrder
	Descending bool
	PageSize   int
	Offset     int
}

// DrillDownUseCase раскрывает ячейку обратно в исходные записи.
type DrillDownUseCase struct {
	store       repository.RecordStore
	guard       *SchemaGuard
	logger      *zap.Logger
	metrics     *observability.Metrics
	maxPageSize int
}

// NewDrillDownUseCase создает новый экземпляр DrillDownUseCase
func NewDrillDownUseCase(
	store repository.RecordStore,
	guard *SchemaGuard,
	logger *zap.Logger,
	metrics *observability.Metrics,
	maxPageSize int,
) *DrillDownUseCase {
	return &DrillDownUseCase{
		store:       store,
		guard:       guard,
		logger:      logger,
		metrics:     metrics,
		maxPageSize: maxPageSize,
	}
}

func (q CellQuery) resolve() (grid.Cell, query.Predicates, error) {
	cell, err := grid.ParseCellID(q.CellID)
	if err != nil {
		return grid.Cell{}, query.Predicates{}, err
	}
	if err := grid.Validate(q.Resolution); err != nil {
		return grid.Cell{}, query.Predicates{}, err
	}
	preds, err := query.BuildPredicates(q.Criteria)
	if err != nil {
		return grid.Cell{}, query.Predicates{}, err
	}
	return cell, preds, nil
}

func (uc *DrillDownUseCase) execute(ctx context.Context, operation string, st query.Statement, fields ...zap.Field) (*domain.ResultSet, error) {
	start := time.Now()
	rs, err := uc.store.Execute(ctx, st.SQL, st.Args...)
	uc.metrics.ObserveQuery(operation, start, err)
	if err != nil {
		uc.logger.Error("Drill-down query failed",
			append(fields, zap.String("operation", operation), zap.Error(err))...)
		return nil, errors.QueryExecution(operation, err)
	}
	return rs, nil
}

// Summary возвращает число происшествий и сумму пострадавших по степеням
// тяжести в ячейке, от большей группы к меньшей. Отсутствующие степени не выводятся.
func (uc *DrillDownUseCase) Summary(ctx context.Context, q CellQuery) ([]domain.SeveritySummary, error) {
	cell, preds, err := q.resolve()
	if err != nil {
		return nil, err
	}
	if err := uc.guard.Check(ctx); err != nil {
		return nil, err
	}

	rs, err := uc.execute(ctx, "summary", query.CellSummary(preds, cell, q.Resolution),
		zap.String("cell_id", q.CellID))
	if err != nil {
		return nil, err
	}

	out := make([]domain.SeveritySummary, 0, rs.Len())
	for i := 0; i < rs.Len(); i++ {
		severity, err := rs.String(i, domain.ColumnSeverity)
		if err != nil {
			return nil, errors.QueryExecution("summary", err)
		}
		collisions, err := rs.Int64(i, query.ColCollisions)
		if err != nil {
			return nil, errors.QueryExecution("summary", err)
		}
		casualties, err := rs.Int64(i, query.ColCasualties)
		if err != nil {
			return nil, errors.QueryExecution("summary", err)
		}
		out = append(out, domain.SeveritySummary{
			Severity:   severity,
			Collisions: collisions,
			Casualties: casualties,
		})
	}
	return out, nil
}

func (uc *DrillDownUseCase) validatePage(pageSize, offset int) error {
	if pageSize <= 0 || (uc.maxPageSize > 0 && pageSize > uc.maxPageSize) {
		return errors.InvalidArgument("page_size out of range", map[string]interface{}{
			"page_size": pageSize,
			"max":       uc.maxPageSize,
		})
	}
	if offset < 0 {
		return errors.InvalidArgument("offset must not be negative", map[string]interface{}{
			"offset": offset,
		})
	}
	return nil
}

// Detail возвращает страницу записей ячейки и общее число записей.
// Страница и COUNT выполняются параллельно.
func (uc *DrillDownUseCase) Detail(ctx context.Context, p DetailParams) (*domain.DetailPage, error) {
	cell, preds, err := p.resolve()
	if err != nil {
		return nil, err
	}
	columns, err := query.Projection(p.Columns)
	if err != nil {
		return nil, err
	}
	if err := uc.validatePage(p.PageSize, p.Offset); err != nil {
		return nil, err
	}
	pageStmt, err := query.CellDetail(preds, cell, p.Resolution, query.DetailParams{
		Columns:    columns,
		OrderBy:    p.OrderBy,
		Descending: p.Descending,
		Limit:      p.PageSize,
		Offset:     p.Offset,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.guard.Check(ctx); err != nil {
		return nil, err
	}

	var (
		page  *domain.ResultSet
		count *domain.ResultSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs, err := uc.execute(gctx, "detail", pageStmt, zap.String("cell_id", p.CellID))
		page = rs
		return err
	})
	g.Go(func() error {
		rs, err := uc.execute(gctx, "count", query.CellCount(preds, cell, p.Resolution), zap.String("cell_id", p.CellID))
		count = rs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int64
	if count.Len() > 0 {
		if total, err = count.Int64(0, query.ColTotal); err != nil {
			return nil, errors.QueryExecution("count", err)
		}
	}

	records := make([]domain.Record, 0, page.Len())
	for i := 0; i < page.Len(); i++ {
		rec := page.Record(i)
		if t, ok := rec[domain.ColumnDate].(time.Time); ok {
			rec[domain.ColumnDate] = t.Format(domain.DateLayout)
		}
		records = append(records, rec)
	}

	return &domain.DetailPage{
		CellID:   p.CellID,
		Columns:  columns,
		Records:  records,
		PageSize: p.PageSize,
		Offset:   p.Offset,
		Total:    total,
		HasNext:  int64(p.Offset+len(records)) < total,
	}, nil
}
