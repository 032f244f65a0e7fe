package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeclean/internal/docstore/docstoretest"
	"homeclean/internal/repository"
)

func newService(t *testing.T) *Service {
	t.Helper()
	repos := repository.New(docstoretest.New(t))
	return NewService(repos.Promos, repos.Settings, 15, nil)
}

func TestPromoLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	p, err := svc.CreatePromo(ctx, CreatePromoRequest{Code: "welcome20", PercentOff: 20})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME20", p.Code)
	assert.True(t, p.Active)

	_, err = svc.CreatePromo(ctx, CreatePromoRequest{Code: "Welcome20", PercentOff: 5})
	assert.ErrorIs(t, err, ErrCodeTaken)

	off, err := svc.SetPromoActive(ctx, p.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Active)

	// Once retired the code can be reissued.
	_, err = svc.CreatePromo(ctx, CreatePromoRequest{Code: "WELCOME20", PercentOff: 10})
	require.NoError(t, err)

	list, err := svc.ListPromos(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.SetPromoActive(ctx, "promo_missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreatePromo(ctx, CreatePromoRequest{Code: "X1Y", PercentOff: 0})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestPlatformSettings(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	s, err := svc.GetPlatformSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, s.PlatformFeePercent)
	assert.Equal(t, 15.0, s.EffectiveFee)

	fee := 9.5
	s, err = svc.UpdatePlatformSettings(ctx, PlatformSettingsRequest{PlatformFeePercent: &fee})
	require.NoError(t, err)
	assert.Equal(t, 9.5, s.EffectiveFee)

	s, err = svc.UpdatePlatformSettings(ctx, PlatformSettingsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 15.0, s.EffectiveFee)

	bad := 101.0
	_, err = svc.UpdatePlatformSettings(ctx, PlatformSettingsRequest{PlatformFeePercent: &bad})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
