package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/usecase"
)

func newRadiusUseCase(t *testing.T) (*usecase.RadiusUseCase, *clockwork.FakeClock, *miniredis.Miniredis) {
	t.Helper()
	cacheRepo, mr := newMiniCache(t)
	clock := clockwork.NewFakeClockAt(facetNow)
	uc := usecase.NewRadiusUseCase(cacheRepo, clock, time.Hour, usecase.RadiusDefaults{
		Reference:   london,
		RadiusMiles: 10,
	}, zap.NewNop())
	return uc, clock, mr
}

func TestRadiusUseCase_Create(t *testing.T) {
	uc, _, _ := newRadiusUseCase(t)

	state, err := uc.Create(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(state.SessionID)
	assert.NoError(t, err)
	assert.Equal(t, london, state.Reference)
	assert.Equal(t, 10.0, state.RadiusMiles)
	assert.False(t, state.Enabled)
	assert.False(t, state.Confirmed)
	assert.True(t, state.Runnable())

	loaded, err := uc.Get(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.SessionID, loaded.SessionID)
	assert.True(t, facetNow.Equal(loaded.UpdatedAt))
}

func TestRadiusUseCase_ConfirmationLifecycle(t *testing.T) {
	uc, clock, _ := newRadiusUseCase(t)
	ctx := context.Background()

	state, err := uc.Create(ctx)
	require.NoError(t, err)
	id := state.SessionID

	state, err = uc.SetEnabled(ctx, id, true)
	require.NoError(t, err)
	assert.False(t, state.Runnable())

	state, err = uc.Confirm(ctx, id)
	require.NoError(t, err)
	assert.True(t, state.Runnable())

	// radius changes keep the confirmation
	state, err = uc.SetRadius(ctx, id, 2.5)
	require.NoError(t, err)
	assert.True(t, state.Confirmed)
	assert.Equal(t, 2.5, state.RadiusMiles)

	// re-sending the same point is not a move
	state, err = uc.MoveReference(ctx, id, london)
	require.NoError(t, err)
	assert.True(t, state.Confirmed)

	clock.Advance(time.Minute)
	moved := domain.Point{Lat: 53.4808, Lon: -2.2426}
	state, err = uc.MoveReference(ctx, id, moved)
	require.NoError(t, err)
	assert.False(t, state.Confirmed)
	assert.False(t, state.Runnable())
	assert.True(t, facetNow.Add(time.Minute).Equal(state.UpdatedAt))

	loaded, err := uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, moved, loaded.Reference)
	assert.False(t, loaded.Confirmed)
	assert.True(t, loaded.Enabled)
}

func TestRadiusUseCase_Validation(t *testing.T) {
	uc, _, _ := newRadiusUseCase(t)
	ctx := context.Background()

	state, err := uc.Create(ctx)
	require.NoError(t, err)

	_, err = uc.SetRadius(ctx, state.SessionID, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	_, err = uc.SetRadius(ctx, state.SessionID, 150)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	_, err = uc.MoveReference(ctx, state.SessionID, domain.Point{Lat: 91, Lon: 0})
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	loaded, err := uc.Get(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, loaded.RadiusMiles)
	assert.Equal(t, london, loaded.Reference)
}

func TestRadiusUseCase_NotFound(t *testing.T) {
	uc, _, _ := newRadiusUseCase(t)
	ctx := context.Background()

	_, err := uc.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	_, err = uc.Confirm(ctx, uuid.NewString())
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestRadiusUseCase_SessionExpires(t *testing.T) {
	uc, _, mr := newRadiusUseCase(t)
	ctx := context.Background()

	state, err := uc.Create(ctx)
	require.NoError(t, err)

	mr.FastForward(30 * time.Minute)
	_, err = uc.Confirm(ctx, state.SessionID)
	require.NoError(t, err)

	// every write renews the TTL
	mr.FastForward(45 * time.Minute)
	_, err = uc.Get(ctx, state.SessionID)
	require.NoError(t, err)

	mr.FastForward(time.Hour)
	_, err = uc.Get(ctx, state.SessionID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestRadiusUseCase_CacheDown(t *testing.T) {
	uc, _, mr := newRadiusUseCase(t)
	mr.Close()

	_, err := uc.Create(context.Background())
	assert.ErrorIs(t, err, errors.ErrInternalServer)
}
