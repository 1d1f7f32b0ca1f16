package errors

import "net/http"

const (
	CodeInvalidFilter      = "INVALID_FILTER"
	CodeInvalidMetric      = "INVALID_METRIC"
	CodeInvalidArgument    = "INVALID_ARGUMENT"
	CodeInvalidCellID      = "INVALID_CELL_ID"
	CodeInvalidColumn      = "INVALID_COLUMN"
	CodeSchemaMissing      = "SCHEMA_MISSING"
	CodeQueryExecution     = "QUERY_EXECUTION_ERROR"
	CodeRadiusNotConfirmed = "RADIUS_NOT_CONFIRMED"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInternalServer     = "INTERNAL_SERVER_ERROR"
)

var (
	ErrInvalidFilter = New(
		CodeInvalidFilter,
		"Invalid filter criteria",
		http.StatusBadRequest,
	)

	ErrInvalidMetric = New(
		CodeInvalidMetric,
		"Unknown ranking metric",
		http.StatusBadRequest,
	)

	ErrInvalidArgument = New(
		CodeInvalidArgument,
		"Invalid argument",
		http.StatusBadRequest,
	)

	ErrInvalidCellID = New(
		CodeInvalidCellID,
		"Invalid cell identifier",
		http.StatusBadRequest,
	)

	ErrInvalidColumn = New(
		CodeInvalidColumn,
		"Column is not allowed",
		http.StatusBadRequest,
	)

	ErrSchemaMissing = New(
		CodeSchemaMissing,
		"Record table or required columns are missing",
		http.StatusServiceUnavailable,
	)

	ErrQueryExecution = New(
		CodeQueryExecution,
		"Record store query failed",
		http.StatusBadGateway,
	)

	ErrRadiusNotConfirmed = New(
		CodeRadiusNotConfirmed,
		"Reference point changed; confirm the radius query before running it",
		http.StatusConflict,
	)

	ErrSessionNotFound = New(
		CodeSessionNotFound,
		"Analysis session not found",
		http.StatusNotFound,
	)

	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		CodeInternalServer,
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// InvalidFilter builds an INVALID_FILTER error naming the offending field.
func InvalidFilter(message string, details map[string]interface{}) *AppError {
	e := ErrInvalidFilter.WithDetails(details)
	e.Message = message
	return e
}

func InvalidMetric(metric string) *AppError {
	return ErrInvalidMetric.WithDetails(map[string]interface{}{"metric": metric})
}

func InvalidArgument(message string, details map[string]interface{}) *AppError {
	e := ErrInvalidArgument.WithDetails(details)
	e.Message = message
	return e
}

func InvalidCellID(cellID string) *AppError {
	return ErrInvalidCellID.WithDetails(map[string]interface{}{"cell_id": cellID})
}

func InvalidColumn(column string, allowed []string) *AppError {
	return ErrInvalidColumn.WithDetails(map[string]interface{}{
		"column":  column,
		"allowed": allowed,
	})
}

func SchemaMissing(table string, missing []string) *AppError {
	return ErrSchemaMissing.WithDetails(map[string]interface{}{
		"table":   table,
		"missing": missing,
	})
}

// QueryExecution wraps a record store failure. operation names the query
// that failed (aggregate, summary, detail, facet, ...).
func QueryExecution(operation string, cause error) *AppError {
	return ErrQueryExecution.
		WithDetails(map[string]interface{}{"operation": operation}).
		WithCause(cause)
}
