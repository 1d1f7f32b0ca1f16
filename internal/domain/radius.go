package domain

import "time"

// RadiusQueryState is the caller-owned reference point and radius of one
// analysis session. Moving the reference point clears Confirmed so the
// expensive distance-filtered aggregation only runs after an explicit
// confirmation.
type RadiusQueryState struct {
	SessionID   string    `json:"session_id"`
	Reference   Point     `json:"reference"`
	RadiusMiles float64   `json:"radius_miles"`
	Enabled     bool      `json:"enabled"`
	Confirmed   bool      `json:"confirmed"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MoveReference sets a new reference point. Any change invalidates a
// previous confirmation; re-sending the same point does not.
func (s *RadiusQueryState) MoveReference(p Point, now time.Time) {
	if s.Reference != p {
		s.Reference = p
		s.Confirmed = false
	}
	s.UpdatedAt = now
}

// SetRadius adjusts the radius without requiring a new confirmation.
func (s *RadiusQueryState) SetRadius(miles float64, now time.Time) {
	s.RadiusMiles = miles
	s.UpdatedAt = now
}

func (s *RadiusQueryState) SetEnabled(enabled bool, now time.Time) {
	s.Enabled = enabled
	s.UpdatedAt = now
}

func (s *RadiusQueryState) Confirm(now time.Time) {
	s.Confirmed = true
	s.UpdatedAt = now
}

// Runnable reports whether a radius-filtered aggregation may execute.
func (s RadiusQueryState) Runnable() bool {
	return !s.Enabled || s.Confirmed
}
