package repository

import (
	"context"

	"github.com/hotspot-explorer/internal/domain"
)

// RecordStore executes read-only parameterized queries against the incident
// record table. Queries use '?' placeholders.
type RecordStore interface {
	// Execute runs query with args bound as parameters.
	Execute(ctx context.Context, query string, args ...interface{}) (*domain.ResultSet, error)

	// TableColumns lists the columns of table, or none when it does not exist.
	TableColumns(ctx context.Context, table string) ([]string, error)
}
