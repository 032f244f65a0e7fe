package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeclean/internal/docstore/docstoretest"
	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
	"homeclean/internal/repository"
)

func TestSummaryFor(t *testing.T) {
	ctx := context.Background()
	repos := repository.New(docstoretest.New(t))
	for _, r := range []int{5, 4, 4} {
		require.NoError(t, repos.Reviews.Create(ctx, &domain.Review{
			BookingID: "booking_x", AuthorID: "cust", AuthorRole: domain.RoleCustomer, SubjectID: "clean", Rating: r,
		}))
	}
	svc := NewService(repos.Reviews)

	s, err := svc.SummaryFor(ctx, "clean")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 4.3, s.Average)

	empty, err := svc.Mine(ctx, &auth.Session{UserID: "nobody", Role: domain.RoleCustomer})
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.NotNil(t, empty.Reviews)

	_, err = svc.Mine(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	byBooking, err := svc.ForBooking(ctx, "booking_x")
	require.NoError(t, err)
	assert.Len(t, byBooking, 3)
}
