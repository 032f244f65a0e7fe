package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeclean/internal/docstore/docstoretest"
	"homeclean/internal/domain"
)

func TestUserRepository_EmailLookupIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(docstoretest.New(t))

	u := &domain.User{Email: "  Ann@Example.com ", Name: "Ann", Role: domain.RoleCustomer}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	got, err := repo.GetByEmail(ctx, "ANN@example.COM")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	exists, err := repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPromoRepository_GetActiveByCode(t *testing.T) {
	ctx := context.Background()
	repo := NewPromoRepository(docstoretest.New(t))

	require.NoError(t, repo.Create(ctx, &domain.PromoCode{Code: "spring10", PercentOff: 10, Active: true}))
	require.NoError(t, repo.Create(ctx, &domain.PromoCode{Code: "OLD", PercentOff: 50, Active: false}))

	p, err := repo.GetActiveByCode(ctx, "Spring10")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "SPRING10", p.Code)

	p, err = repo.GetActiveByCode(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNotificationRepository_DeleteReadBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(docstoretest.New(t))

	old := time.Now().Add(-48 * time.Hour)
	items := []*domain.Notification{
		{UserID: "u1", Type: domain.NotifJobOffer, Read: true, CreatedAt: old},
		{UserID: "u1", Type: domain.NotifJobOffer, Read: false, CreatedAt: old},
		{UserID: "u1", Type: domain.NotifJobOffer, Read: true},
	}
	for _, n := range items {
		require.NoError(t, repo.Create(ctx, n))
	}

	deleted, err := repo.DeleteReadBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	left, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestBookingRepository_MutateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(docstoretest.New(t))

	b := &domain.Booking{CustomerID: "u1", HouseID: "h1", Status: domain.BookingPlaced, TotalAmount: 80}
	require.NoError(t, repo.Create(ctx, b))

	changed, err := repo.Mutate(ctx, b.ID, func(cur *domain.Booking) (bool, error) {
		cur.Status = domain.BookingConfirmed
		cur.CleanerUserID = "u2"
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, changed)

	mine, err := repo.ListByCleanerUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.BookingConfirmed, mine[0].Status)
	assert.False(t, mine[0].CreatedAt.IsZero())

	missing, err := repo.GetByID(ctx, "booking_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(docstoretest.New(t))

	s, err := repo.Platform(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	fee := 12.0
	require.NoError(t, repo.SavePlatform(ctx, &domain.PlatformSettings{PlatformFeePercent: &fee}))
	s, err = repo.Platform(ctx)
	require.NoError(t, err)
	require.NotNil(t, s.PlatformFeePercent)
	assert.Equal(t, 12.0, *s.PlatformFeePercent)
}
