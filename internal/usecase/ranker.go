package usecase

import (
	"sort"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
)

// ValidateRanking проверяет метрику и K до выполнения запроса. maxK <= 0
// отключает верхнюю границу.
func ValidateRanking(metric domain.Metric, k, maxK int) error {
	if !metric.Valid() {
		return errors.InvalidMetric(string(metric))
	}
	if k <= 0 {
		return errors.InvalidArgument("top_k must be positive", map[string]interface{}{
			"top_k": k,
		})
	}
	if maxK > 0 && k > maxK {
		return errors.InvalidArgument("top_k exceeds the allowed maximum", map[string]interface{}{
			"top_k": k,
			"max":   maxK,
		})
	}
	return nil
}

// RankCells сортирует строки по метрике по убыванию, затем по cell id по
// возрастанию, и оставляет первые k. Входной срез не изменяется.
func RankCells(rows []domain.CellRow, metric domain.Metric, k int) ([]domain.CellRow, error) {
	if err := ValidateRanking(metric, k, 0); err != nil {
		return nil, err
	}

	ranked := make([]domain.CellRow, len(rows))
	copy(ranked, rows)
	sort.Slice(ranked, func(i, j int) bool {
		vi, vj := ranked[i].Value(metric), ranked[j].Value(metric)
		if vi != vj {
			return vi > vj
		}
		return ranked[i].CellID < ranked[j].CellID
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}
