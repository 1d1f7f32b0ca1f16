package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
)

// keyPrefix namespaces every key this service writes.
const keyPrefix = "hotspots:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository создает новый экземпляр CacheRepository
func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

// FacetKey is the Redis key of a cached option list.
func FacetKey(table, column string) string {
	return keyPrefix + "facet:" + table + ":" + column
}

// RadiusKey is the Redis key of a session's radius state.
func RadiusKey(sessionID string) string {
	return keyPrefix + "radius:" + sessionID
}

// getJSON decodes key into dst. found is false on a miss.
func (r *cacheRepository) getJSON(ctx context.Context, key string, dst interface{}) (found bool, err error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return false, eris.Wrapf(err, "cache get %s", key)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.Error("Failed to decode cached value", zap.String("key", key), zap.Error(err))
		return false, eris.Wrapf(err, "decode %s", key)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return true, nil
}

// setJSON stores v under key. ttl 0 keeps it until deleted.
func (r *cacheRepository) setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "encode %s", key)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return eris.Wrapf(err, "cache set %s", key)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetFacet возвращает кешированный список или nil, если его нет
func (r *cacheRepository) GetFacet(ctx context.Context, table, column string) (*domain.FacetList, error) {
	var list domain.FacetList
	found, err := r.getJSON(ctx, FacetKey(table, column), &list)
	if err != nil || !found {
		return nil, err
	}
	return &list, nil
}

// SetFacet сохраняет список без TTL; заменить его может только явное обновление
func (r *cacheRepository) SetFacet(ctx context.Context, list *domain.FacetList) error {
	return r.setJSON(ctx, FacetKey(list.Table, list.Column), list, 0)
}

// DeleteFacet удаляет кешированный список
func (r *cacheRepository) DeleteFacet(ctx context.Context, table, column string) error {
	key := FacetKey(table, column)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return eris.Wrapf(err, "cache delete %s", key)
	}
	return nil
}

// GetRadiusState возвращает состояние сессии или nil, если его нет или срок истек
func (r *cacheRepository) GetRadiusState(ctx context.Context, sessionID string) (*domain.RadiusQueryState, error) {
	var state domain.RadiusQueryState
	found, err := r.getJSON(ctx, RadiusKey(sessionID), &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

// SetRadiusState сохраняет состояние сессии с TTL
func (r *cacheRepository) SetRadiusState(ctx context.Context, state *domain.RadiusQueryState, ttl time.Duration) error {
	return r.setJSON(ctx, RadiusKey(state.SessionID), state, ttl)
}
