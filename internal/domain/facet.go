package domain

import "time"

// FacetValue is one distinct value of a nominal column and its frequency.
type FacetValue struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// FacetList is the cached option list for one (table, column). Limit is the
// size that was requested when the list was loaded; Values may be shorter
// when the column has fewer distinct values.
type FacetList struct {
	Table    string       `json:"table"`
	Column   string       `json:"column"`
	Limit    int          `json:"limit"`
	Values   []FacetValue `json:"values"`
	LoadedAt time.Time    `json:"loaded_at"`
}

// Covers reports whether the list can answer a request for limit values.
func (f *FacetList) Covers(limit int) bool {
	return f.Limit >= limit || len(f.Values) < f.Limit
}

// Prefix returns a copy holding at most limit values.
func (f *FacetList) Prefix(limit int) *FacetList {
	out := *f
	if limit < len(f.Values) {
		out.Values = append([]FacetValue(nil), f.Values[:limit]...)
	} else {
		out.Values = append([]FacetValue(nil), f.Values...)
	}
	return &out
}
