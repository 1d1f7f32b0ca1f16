package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
	"github.com/hotspot-explorer/internal/repository/cache"
)

func newTestRepo(t *testing.T) (repository.CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewCacheRepository(cache.NewRedisForTest(client, nil)), mr
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "hotspots:facet:geo_events_raw:road_type", cache.FacetKey(domain.IncidentTable, domain.ColumnRoadType))
	assert.Equal(t, "hotspots:radius:abc", cache.RadiusKey("abc"))
}

func TestCacheRepository_Facet(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	list := &domain.FacetList{
		Table:  domain.IncidentTable,
		Column: domain.ColumnRoadType,
		Limit:  30,
		Values: []domain.FacetValue{
			{Value: "Single carriageway", Count: 120},
			{Value: "Roundabout", Count: 14},
		},
		LoadedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SetFacet(ctx, list))

	// facet lists never expire on their own
	assert.Equal(t, time.Duration(0), mr.TTL(cache.FacetKey(domain.IncidentTable, domain.ColumnRoadType)))

	got, err := repo.GetFacet(ctx, domain.IncidentTable, domain.ColumnRoadType)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, list.Values, got.Values)
	assert.Equal(t, 30, got.Limit)
	assert.True(t, list.LoadedAt.Equal(got.LoadedAt))

	require.NoError(t, repo.DeleteFacet(ctx, domain.IncidentTable, domain.ColumnRoadType))
	got, err = repo.GetFacet(ctx, domain.IncidentTable, domain.ColumnRoadType)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheRepository_CorruptFacet(t *testing.T) {
	repo, mr := newTestRepo(t)
	require.NoError(t, mr.Set(cache.FacetKey("geo_events_raw", "road_type"), "{not json"))

	_, err := repo.GetFacet(context.Background(), "geo_events_raw", "road_type")
	assert.Error(t, err)
}

func TestCacheRepository_RadiusState(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	state := &domain.RadiusQueryState{
		SessionID:   "a2b7c7a0-0000-4000-8000-000000000001",
		Reference:   domain.Point{Lat: 51.5074, Lon: -0.1278},
		RadiusMiles: 10,
		Enabled:     true,
		Confirmed:   true,
		UpdatedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SetRadiusState(ctx, state, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(cache.RadiusKey(state.SessionID)))

	got, err := repo.GetRadiusState(ctx, state.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.Reference, got.Reference)
	assert.True(t, got.Enabled)
	assert.True(t, got.Confirmed)

	mr.FastForward(2 * time.Hour)
	got, err = repo.GetRadiusState(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheRepository_CorruptRadiusState(t *testing.T) {
	repo, mr := newTestRepo(t)
	require.NoError(t, mr.Set(cache.RadiusKey("abc"), "[]"))

	_, err := repo.GetRadiusState(context.Background(), "abc")
	assert.Error(t, err)
}

func TestCacheRepository_Unavailable(t *testing.T) {
	repo, mr := newTestRepo(t)
	mr.Close()

	_, err := repo.GetFacet(context.Background(), "geo_events_raw", "road_type")
	assert.Error(t, err)
}
