package domain

import (
	"fmt"

	"github.com/spf13/cast"
)

// ResultSet is the tabular result of a record store query.
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
}

// Index returns the position of column, or -1.
func (rs *ResultSet) Index(column string) int {
	for i, c := range rs.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

func (rs *ResultSet) Len() int {
	return len(rs.Rows)
}

func (rs *ResultSet) value(row int, column string) (interface{}, error) {
	idx := rs.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("result set has no column %q", column)
	}
	if row < 0 || row >= len(rs.Rows) {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	v := rs.Rows[row][idx]
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	return v, nil
}

// Int64 reads an integer column; NULL reads as zero.
func (rs *ResultSet) Int64(row int, column string) (int64, error) {
	v, err := rs.value(row, column)
	if err != nil || v == nil {
		return 0, err
	}
	return cast.ToInt64E(v)
}

func (rs *ResultSet) Float64(row int, column string) (float64, error) {
	v, err := rs.value(row, column)
	if err != nil || v == nil {
		return 0, err
	}
	return cast.ToFloat64E(v)
}

func (rs *ResultSet) String(row int, column string) (string, error) {
	v, err := rs.value(row, column)
	if err != nil || v == nil {
		return "", err
	}
	return cast.ToStringE(v)
}

// Record returns row as a column-keyed map with []byte values decoded to
// strings.
func (rs *ResultSet) Record(row int) Record {
	rec := make(Record, len(rs.Columns))
	for i, c := range rs.Columns {
		v := rs.Rows[row][i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		rec[c] = v
	}
	return rec
}
