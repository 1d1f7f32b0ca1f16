package domain

import "time"

// DateLayout is the canonical calendar date format used for range filters.
const DateLayout = "2006-01-02"

type TimeMode string

const (
	TimeModePeriod TimeMode = "period"
	TimeModeRange  TimeMode = "range"
)

// TimeWindow selects records either by year (optionally narrowed to a month)
// or by an inclusive date range.
type TimeWindow struct {
	Mode  TimeMode
	Year  int
	Month int // 0 = whole year
	Start *time.Time
	End   *time.Time
}

// Condition is an exact-match constraint on a nominal attribute.
type Condition struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Criteria is the immutable filter set shared by aggregation and drill-down.
//
// Severities distinguishes "no constraint" (nil) from an explicitly empty
// non-nil selection, which matches nothing.
type Criteria struct {
	Time       TimeWindow
	Severities []Severity
	Conditions []Condition
}

// ForYear builds period criteria for a whole year.
func ForYear(year int) Criteria {
	return Criteria{Time: TimeWindow{Mode: TimeModePeriod, Year: year}}
}

// ForMonth builds period criteria for one month of a year.
func ForMonth(year, month int) Criteria {
	return Criteria{Time: TimeWindow{Mode: TimeModePeriod, Year: year, Month: month}}
}

// ForRange builds criteria for an inclusive date range.
func ForRange(start, end time.Time) Criteria {
	return Criteria{Time: TimeWindow{Mode: TimeModeRange, Start: &start, End: &end}}
}

// WithSeverities returns a copy restricted to the given severities. Passing
// no severities yields criteria that match no record.
func (c Criteria) WithSeverities(severities ...Severity) Criteria {
	c.Severities = append(make([]Severity, 0, len(severities)), severities...)
	return c
}

// WithCondition returns a copy with an extra exact-match constraint.
func (c Criteria) WithCondition(column, value string) Criteria {
	c.Conditions = append(append([]Condition(nil), c.Conditions...), Condition{Column: column, Value: value})
	return c
}

// SeverityConstrained reports whether a severity subset was selected at all.
func (c Criteria) SeverityConstrained() bool {
	return c.Severities != nil
}
