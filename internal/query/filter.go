package query

import (
	"strings"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
)

// Predicates is a conjunction of parameterized SQL fragments. Clauses use
// '?' placeholders; Args holds the bound values in placeholder order.
type Predicates struct {
	Clauses []string
	Args    []interface{}
}

func (p *Predicates) add(clause string, args ...interface{}) {
	p.Clauses = append(p.Clauses, clause)
	p.Args = append(p.Args, args...)
}

// Where renders the conjunction as a WHERE clause, or "" when empty.
func (p Predicates) Where() string {
	if len(p.Clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.Clauses, " AND ")
}

// With returns a copy extended with extra clauses. The receiver is not
// modified.
func (p Predicates) With(clause string, args ...interface{}) Predicates {
	out := Predicates{
		Clauses: append(append([]string(nil), p.Clauses...), clause),
		Args:    append(append([]interface{}(nil), p.Args...), args...),
	}
	return out
}

// BuildPredicates translates filter criteria into parameterized predicates.
// Values are never interpolated into the query text.
func BuildPredicates(c domain.Criteria) (Predicates, error) {
	var p Predicates

	switch c.Time.Mode {
	case domain.TimeModePeriod:
		if c.Time.Year <= 0 {
			return Predicates{}, errors.InvalidFilter("year is required in period mode", map[string]interface{}{
				"field": "year",
			})
		}
		p.add(domain.ColumnYear+" = ?", c.Time.Year)
		if c.Time.Month != 0 {
			if c.Time.Month < 1 || c.Time.Month > 12 {
				return Predicates{}, errors.InvalidFilter("month must be between 1 and 12", map[string]interface{}{
					"field": "month",
					"value": c.Time.Month,
				})
			}
			p.add(domain.ColumnMonth+" = ?", c.Time.Month)
		}
	case domain.TimeModeRange:
		if c.Time.Start == nil || c.Time.End == nil {
			return Predicates{}, errors.InvalidFilter("range mode needs both start and end dates", map[string]interface{}{
				"field": "date_range",
			})
		}
		start := c.Time.Start.Format(domain.DateLayout)
		end := c.Time.End.Format(domain.DateLayout)
		if start > end {
			return Predicates{}, errors.InvalidFilter("start date is after end date", map[string]interface{}{
				"field": "date_range",
				"start": start,
				"end":   end,
			})
		}
		p.add(domain.ColumnDate+" BETWEEN ? AND ?", start, end)
	default:
		return Predicates{}, errors.InvalidFilter("unknown time mode", map[string]interface{}{
			"field": "time_mode",
			"value": string(c.Time.Mode),
		})
	}

	if c.SeverityConstrained() {
		if len(c.Severities) == 0 {
			p.add("1 = 0")
		} else {
			marks := make([]string, 0, len(c.Severities))
			args := make([]interface{}, 0, len(c.Severities))
			for _, s := range c.Severities {
				if !s.Valid() {
					return Predicates{}, errors.InvalidFilter("unknown severity", map[string]interface{}{
						"field": "severity",
						"value": string(s),
					})
				}
				marks = append(marks, "?")
				args = append(args, string(s))
			}
			p.add(domain.ColumnSeverity+" IN ("+strings.Join(marks, ", ")+")", args...)
		}
	}

	for _, cond := range c.Conditions {
		if !domain.IsConditionColumn(cond.Column) {
			return Predicates{}, errors.InvalidFilter("condition column is not filterable", map[string]interface{}{
				"field":   "conditions",
				"column":  cond.Column,
				"allowed": domain.ConditionColumns,
			})
		}
		p.add(cond.Column+" = ?", cond.Value)
	}

	return p, nil
}
