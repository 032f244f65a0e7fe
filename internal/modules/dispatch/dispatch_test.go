package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeclean/internal/docstore/docstoretest"
	"homeclean/internal/domain"
	"homeclean/internal/modules/notification"
	"homeclean/internal/repository"
)

func ptr(v float64) *float64 { return &v }

var (
	dallas = domain.GeoPoint{Lat: 32.7767, Lng: -96.7970}
	austin = domain.GeoPoint{Lat: 30.2672, Lng: -97.7431}
)

type fixture struct {
	repos    *repository.Repositories
	notifier *notification.Service
	d        *Dispatcher
}

func newFixture(t *testing.T) *fixture {
	repos := repository.New(docstoretest.New(t))
	notifier := notification.NewService(repos.Notifications, repos.Users, nil, nil)
	return &fixture{
		repos:    repos,
		notifier: notifier,
		d:        New(repos.Cleaners, repos.Houses, notifier, nil),
	}
}

// refusingNotifier fails for one recipient and delegates the rest.
type refusingNotifier struct {
	next   Notifier
	refuse string
}

func (n refusingNotifier) Notify(ctx context.Context, note *domain.Notification) error {
	if note.UserID == n.refuse {
		return errors.New("store unavailable")
	}
	return n.next.Notify(ctx, note)
}

func (f *fixture) cleaner(t *testing.T, userID string, base *domain.GeoPoint, radius float64, status domain.CleanerStatus) {
	require.NoError(t, f.repos.Cleaners.Create(context.Background(), &domain.Cleaner{
		UserID: userID, BaseLocation: base, ServiceRadius: radius, Status: status,
	}))
}

func (f *fixture) offersFor(t *testing.T, bookingID string) []string {
	list, err := f.repos.Notifications.ListByRelated(context.Background(), bookingID)
	require.NoError(t, err)
	var users []string
	for _, n := range list {
		assert.Equal(t, domain.NotifJobOffer, n.Type)
		assert.False(t, n.Read)
		users = append(users, n.UserID)
	}
	return users
}

func TestBroadcastNewJob_Geofence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	house := &domain.House{UserID: "cust", Address: domain.Address{Street: "1 Main", City: "Austin", Lat: ptr(austin.Lat), Lng: ptr(austin.Lng)}}
	require.NoError(t, f.repos.Houses.Create(ctx, house))

	f.cleaner(t, "dallas-10", &dallas, 10, domain.CleanerActive)
	f.cleaner(t, "dallas-250", &dallas, 250, domain.CleanerActive)
	f.cleaner(t, "anywhere", nil, 0, domain.CleanerActive)
	f.cleaner(t, "off-duty", nil, 0, domain.CleanerInactive)

	booking := &domain.Booking{ID: "booking_1", BookingID: "HC-1", HouseID: house.ID}
	n, err := f.d.BroadcastNewJob(ctx, booking)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"dallas-250", "anywhere"}, f.offersFor(t, "booking_1"))
}

func TestBroadcastNewJob_NoEligibleCleaners(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	house := &domain.House{Address: domain.Address{Lat: ptr(austin.Lat), Lng: ptr(austin.Lng)}}
	require.NoError(t, f.repos.Houses.Create(ctx, house))
	f.cleaner(t, "dallas-10", &dallas, 10, domain.CleanerActive)

	n, err := f.d.BroadcastNewJob(ctx, &domain.Booking{ID: "booking_2", HouseID: house.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, f.offersFor(t, "booking_2"))
}

func TestBroadcastNewJob_UngeocodedHouseReachesEveryone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	house := &domain.House{Address: domain.Address{Street: "Unknown"}}
	require.NoError(t, f.repos.Houses.Create(ctx, house))
	f.cleaner(t, "dallas-10", &dallas, 10, domain.CleanerActive)

	n, err := f.d.BroadcastNewJob(ctx, &domain.Booking{ID: "booking_3", HouseID: house.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBroadcastNewJob_RepeatedCallsRepeatOffers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.cleaner(t, "anywhere", nil, 0, domain.CleanerActive)

	booking := &domain.Booking{ID: "booking_4"}
	_, err := f.d.BroadcastNewJob(ctx, booking)
	require.NoError(t, err)
	_, err = f.d.BroadcastNewJob(ctx, booking)
	require.NoError(t, err)
	assert.Len(t, f.offersFor(t, "booking_4"), 2)
}

func TestBroadcastNewJob_FailedOfferDoesNotStopOthers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.cleaner(t, "first", nil, 0, domain.CleanerActive)
	f.cleaner(t, "second", nil, 0, domain.CleanerActive)
	f.cleaner(t, "third", nil, 0, domain.CleanerActive)

	d := New(f.repos.Cleaners, f.repos.Houses, refusingNotifier{next: f.notifier, refuse: "first"}, nil)
	n, err := d.BroadcastNewJob(ctx, &domain.Booking{ID: "booking_5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offer to first")
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"second", "third"}, f.offersFor(t, "booking_5"))
}
