package repository

import (
	"context"
	"time"

	"github.com/hotspot-explorer/internal/domain"
)

// CacheRepository is the shared Redis cache used by API instances.
// Getters return (nil, nil) on a miss.
type CacheRepository interface {
	// GetFacet returns the cached option list for (table, column).
	GetFacet(ctx context.Context, table, column string) (*domain.FacetList, error)

	// SetFacet stores an option list without expiry.
	SetFacet(ctx context.Context, list *domain.FacetList) error

	DeleteFacet(ctx context.Context, table, column string) error

	// GetRadiusState returns the radius state of a session.
	GetRadiusState(ctx context.Context, sessionID string) (*domain.RadiusQueryState, error)

	// SetRadiusState stores the radius state and renews its TTL.
	SetRadiusState(ctx context.Context, state *domain.RadiusQueryState, ttl time.Duration) error
}
