package verification

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"homeclean/internal/docstore/docstoretest"
	"homeclean/internal/domain"
	"homeclean/internal/repository"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func setup(t *testing.T, status domain.BookingStatus) (*Service, *repository.BookingRepository, *mockNotifier, string) {
	t.Helper()
	repos := repository.New(docstoretest.New(t))
	b := &domain.Booking{BookingID: "HC-TEST01", CustomerID: "cust", CleanerUserID: "clean", Status: status}
	require.NoError(t, repos.Bookings.Create(context.Background(), b))

	notifier := new(mockNotifier)
	return NewService(repos.Bookings, notifier, nil), repos.Bookings, notifier, b.ID
}

func load(t *testing.T, repo *repository.BookingRepository, id string) *domain.Booking {
	b, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b
}

func TestGenerateVerificationCodes_FromArrived(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, id := setup(t, domain.BookingArrived)

	codes, ok, err := svc.GenerateVerificationCodes(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Regexp(t, `^\d{4}$`, codes.CustomerCode)
	assert.Regexp(t, `^\d{4}$`, codes.CleanerCode)
	assert.False(t, codes.CustomerVerified)
	assert.False(t, codes.CleanerVerified)

	b := load(t, repo, id)
	assert.Equal(t, domain.BookingVerifying, b.Status)

	again, ok, err := svc.GenerateVerificationCodes(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, codes, again)
}

func TestGenerateVerificationCodes_WrongStatus(t *testing.T) {
	svc, repo, _, id := setup(t, domain.BookingOnTheWay)

	codes, ok, err := svc.GenerateVerificationCodes(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, codes)
	assert.Equal(t, domain.BookingOnTheWay, load(t, repo, id).Status)

	_, _, err = svc.GenerateVerificationCodes(context.Background(), "booking_missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func wrongCode(code string) string {
	if code == "0000" {
		return "1111"
	}
	return "0000"
}

func TestVerifyJobCode(t *testing.T) {
	ctx := context.Background()
	svc, repo, notifier, id := setup(t, domain.BookingArrived)
	codes, _, err := svc.GenerateVerificationCodes(ctx, id)
	require.NoError(t, err)

	// Malformed input never touches the booking.
	for _, bad := range []string{"", "123", "12345", "12a4"} {
		_, err := svc.VerifyJobCode(ctx, id, domain.RoleCustomer, bad)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
	_, err = svc.VerifyJobCode(ctx, id, domain.RoleAdmin, "1234")
	assert.ErrorIs(t, err, ErrInvalidRole)

	ok, err := svc.VerifyJobCode(ctx, id, domain.RoleCustomer, wrongCode(codes.CleanerCode))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, load(t, repo, id).VerificationCodes.CustomerVerified)

	// The customer types the cleaner's code.
	ok, err = svc.VerifyJobCode(ctx, id, domain.RoleCustomer, codes.CleanerCode)
	require.NoError(t, err)
	assert.True(t, ok)
	b := load(t, repo, id)
	assert.True(t, b.VerificationCodes.CustomerVerified)
	assert.False(t, b.VerificationCodes.CleanerVerified)

	// Repeating a correct code stays true.
	ok, err = svc.VerifyJobCode(ctx, id, domain.RoleCustomer, codes.CleanerCode)
	require.NoError(t, err)
	assert.True(t, ok)

	started, err := svc.CheckVerificationAndStart(ctx, id)
	require.NoError(t, err)
	assert.False(t, started)

	ok, err = svc.VerifyJobCode(ctx, id, domain.RoleCleaner, codes.CustomerCode)
	require.NoError(t, err)
	assert.True(t, ok)

	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotifJobStarted && n.UserID == "cust" && n.RelatedID == id
	})).Return(nil).Once()

	started, err = svc.CheckVerificationAndStart(ctx, id)
	require.NoError(t, err)
	assert.True(t, started)

	b = load(t, repo, id)
	assert.Equal(t, domain.BookingInProgress, b.Status)
	assert.NotNil(t, b.JobStartedAt)
	assert.True(t, b.Verified())

	started, err = svc.CheckVerificationAndStart(ctx, id)
	require.NoError(t, err)
	assert.False(t, started)
	notifier.AssertExpectations(t)
}

func TestCheckVerificationAndStart_ConcurrentCallsStartOnce(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier, id := setup(t, domain.BookingArrived)
	codes, _, err := svc.GenerateVerificationCodes(ctx, id)
	require.NoError(t, err)

	_, err = svc.VerifyJobCode(ctx, id, domain.RoleCustomer, codes.CleanerCode)
	require.NoError(t, err)
	_, err = svc.VerifyJobCode(ctx, id, domain.RoleCleaner, codes.CustomerCode)
	require.NoError(t, err)

	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()

	var wg sync.WaitGroup
	var mu sync.Mutex
	starts := 0
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := svc.CheckVerificationAndStart(ctx, id)
			if err == nil && ok {
				mu.Lock()
				starts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, starts)
	notifier.AssertExpectations(t)
}

func TestInProgressImpliesBothVerified(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, id := setup(t, domain.BookingArrived)
	codes, _, err := svc.GenerateVerificationCodes(ctx, id)
	require.NoError(t, err)

	_, err = svc.VerifyJobCode(ctx, id, domain.RoleCleaner, codes.CustomerCode)
	require.NoError(t, err)
	started, err := svc.CheckVerificationAndStart(ctx, id)
	require.NoError(t, err)
	assert.False(t, started)

	b := load(t, repo, id)
	assert.NotEqual(t, domain.BookingInProgress, b.Status)
}
