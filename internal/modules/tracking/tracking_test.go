package tracking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"homeclean/internal/docstore/docstoretest"
	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
	"homeclean/internal/repository"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

var dallas = domain.GeoPoint{Lat: 32.7767, Lng: -96.7970}

type fixture struct {
	svc      *Service
	broker   *Broker
	repos    *repository.Repositories
	notifier *mockNotifier
	id       string
}

func newFixture(t *testing.T, status domain.BookingStatus) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.New(docstoretest.New(t))

	house := &domain.House{UserID: "cust", Address: domain.Address{Street: "1 Elm", City: "Dallas", Lat: &dallas.Lat, Lng: &dallas.Lng}}
	require.NoError(t, repos.Houses.Create(ctx, house))
	b := &domain.Booking{BookingID: "HC-TRACK1", CustomerID: "cust", CleanerUserID: "clean", HouseID: house.ID, Status: status}
	require.NoError(t, repos.Bookings.Create(ctx, b))

	notifier := new(mockNotifier)
	broker := NewBroker()
	return &fixture{
		svc:      NewService(repos.Bookings, notifier, broker, nil),
		broker:   broker,
		repos:    repos,
		notifier: notifier,
		id:       b.ID,
	}
}

func (f *fixture) load(t *testing.T) *domain.Booking {
	t.Helper()
	b, err := f.svc.GetBookingWithTracking(context.Background(), f.id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b
}

func ptr[T any](v T) *T { return &v }

func TestBroker_SubscribeAndCancel(t *testing.T) {
	broker := NewBroker()
	ctx, stop := context.WithCancel(context.Background())

	a, cancelA := broker.Subscribe(context.Background(), "b1")
	b, _ := broker.Subscribe(ctx, "b1")
	assert.Equal(t, 2, broker.Subscribers("b1"))

	broker.Publish(Update{BookingID: "b1", Status: domain.BookingOnTheWay})
	broker.Publish(Update{BookingID: "other"})
	assert.Equal(t, domain.BookingOnTheWay, (<-a).Status)
	assert.Equal(t, domain.BookingOnTheWay, (<-b).Status)

	cancelA()
	cancelA()
	_, open := <-a
	assert.False(t, open)

	stop()
	assert.Eventually(t, func() bool { return broker.Subscribers("b1") == 0 }, time.Second, 5*time.Millisecond)
	_, open = <-b
	assert.False(t, open)
}

func TestUpdateBookingTracking_Trip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, domain.BookingConfirmed)
	sub, cancel := f.broker.Subscribe(ctx, f.id)
	defer cancel()

	f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotifCleanerOnTheWay && n.UserID == "cust"
	})).Return(nil).Once()
	f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotifCleanerArrived && n.UserID == "cust"
	})).Return(nil).Once()

	ok, err := f.svc.UpdateBookingTracking(ctx, f.id, Patch{Lat: ptr(32.9), Lng: ptr(-96.9), Distance: ptr(8.5), ETA: ptr(17)})
	require.NoError(t, err)
	require.True(t, ok)

	b := f.load(t)
	assert.Equal(t, domain.BookingOnTheWay, b.Status)
	require.NotNil(t, b.Tracking)
	assert.Equal(t, 8.5, *b.Tracking.Distance)
	assert.Equal(t, 17, *b.Tracking.ETA)
	assert.Equal(t, domain.BookingOnTheWay, (<-sub).Status)

	// Partial patch keeps the rest.
	ok, err = f.svc.UpdateBookingTracking(ctx, f.id, Patch{ETA: ptr(5)})
	require.NoError(t, err)
	require.True(t, ok)
	b = f.load(t)
	assert.Equal(t, 8.5, *b.Tracking.Distance)
	assert.Equal(t, 5, *b.Tracking.ETA)
	<-sub

	ok, err = f.svc.UpdateBookingTracking(ctx, f.id, Patch{Distance: ptr(0.0)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.BookingArrived, f.load(t).Status)
	assert.Equal(t, domain.BookingArrived, (<-sub).Status)

	// Arrived bookings no longer take ticks.
	ok, err = f.svc.UpdateBookingTracking(ctx, f.id, Patch{ETA: ptr(1)})
	require.NoError(t, err)
	assert.False(t, ok)
	f.notifier.AssertExpectations(t)
}

func TestUpdateBookingTracking_Rejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, domain.BookingPlaced)

	ok, err := f.svc.UpdateBookingTracking(ctx, f.id, Patch{Distance: ptr(3.0)})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, f.load(t).Tracking)

	_, err = f.svc.UpdateBookingTracking(ctx, "booking_missing", Patch{})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	b, err := f.svc.GetBookingWithTracking(ctx, "booking_missing")
	require.NoError(t, err)
	assert.Nil(t, b)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestWatcher_EmitsChangesAndClosesOnTerminal(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := newFixture(t, domain.BookingConfirmed)
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	w := NewWatcher(f.svc, f.broker, 20*time.Millisecond, nil, nil)
	updates := w.Watch(ctx, f.id)

	first := <-updates
	assert.Equal(t, domain.BookingConfirmed, first.Status)

	_, err := f.svc.UpdateBookingTracking(ctx, f.id, Patch{Distance: ptr(2.0)})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingOnTheWay, (<-updates).Status)

	// A write that bypasses the broker still arrives through the poll.
	_, err = f.repos.Bookings.Mutate(ctx, f.id, func(b *domain.Booking) (bool, error) {
		b.Status = domain.BookingInProgress
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingInProgress, (<-updates).Status)

	_, open := <-updates
	assert.False(t, open)
	assert.Eventually(t, func() bool { return f.broker.Subscribers(f.id) == 0 }, time.Second, 5*time.Millisecond)
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	f := newFixture(t, domain.BookingConfirmed)
	ctx, cancel := context.WithCancel(context.Background())

	updates := NewWatcher(f.svc, f.broker, 20*time.Millisecond, nil, nil).Watch(ctx, f.id)
	<-updates
	cancel()

	for range updates {
	}
	assert.Eventually(t, func() bool { return f.broker.Subscribers(f.id) == 0 }, time.Second, 5*time.Millisecond)
}

func TestWatcher_MissingBookingCloses(t *testing.T) {
	f := newFixture(t, domain.BookingConfirmed)
	updates := NewWatcher(f.svc, f.broker, 20*time.Millisecond, nil, nil).Watch(context.Background(), "booking_missing")
	_, open := <-updates
	assert.False(t, open)
}

func TestRouteSource(t *testing.T) {
	src := &RouteSource{From: domain.GeoPoint{Lat: 0, Lng: 0}, To: domain.GeoPoint{Lat: 1, Lng: 2}, Steps: 4}
	var last domain.GeoPoint
	n := 0
	for {
		pos, ok, err := src.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		last = pos
		n++
	}
	assert.Equal(t, 4, n)
	assert.InDelta(t, 1.0, last.Lat, 1e-9)
	assert.InDelta(t, 2.0, last.Lng, 1e-9)
}

func TestReporter_RunsUntilArrival(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := newFixture(t, domain.BookingConfirmed)
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	r := NewReporter(f.svc, f.repos.Houses, 5*time.Millisecond, nil)
	start := domain.GeoPoint{Lat: dallas.Lat + 0.1, Lng: dallas.Lng + 0.1}
	require.NoError(t, r.Run(ctx, f.id, &RouteSource{From: start, To: dallas, Steps: 5}))

	b := f.load(t)
	assert.Equal(t, domain.BookingArrived, b.Status)
	assert.Equal(t, 0.0, *b.Tracking.Distance)
	assert.Equal(t, 0, *b.Tracking.ETA)
}

func TestReporter_StopsWhenRejected(t *testing.T) {
	f := newFixture(t, domain.BookingCancelled)
	r := NewReporter(f.svc, f.repos.Houses, 5*time.Millisecond, nil)
	src := &RouteSource{From: domain.GeoPoint{Lat: 33, Lng: -97}, To: dallas, Steps: 50}

	require.NoError(t, r.Run(context.Background(), f.id, src))
	assert.Equal(t, 1, src.i)
}

func TestReporter_NoDestination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, domain.BookingConfirmed)
	house := &domain.House{UserID: "cust", Address: domain.Address{Street: "2 Oak", City: "Nowhere"}}
	require.NoError(t, f.repos.Houses.Create(ctx, house))
	_, err := f.repos.Bookings.Mutate(ctx, f.id, func(b *domain.Booking) (bool, error) {
		b.HouseID = house.ID
		return true, nil
	})
	require.NoError(t, err)

	err = NewReporter(f.svc, f.repos.Houses, 0, nil).Run(ctx, f.id, &RouteSource{Steps: 1})
	assert.ErrorIs(t, err, ErrNoDestination)
}

func TestStream_PushesUntilTerminal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t, domain.BookingConfirmed)
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	h := NewHandler(f.svc, NewWatcher(f.svc, f.broker, 20*time.Millisecond, nil, nil), nil, nil)
	r := gin.New()
	ws := r.Group("/ws", func(c *gin.Context) {
		s := &auth.Session{UserID: c.Query("token"), Role: domain.RoleCustomer}
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), s))
	})
	h.RegisterStreamRoutes(ws)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/bookings/" + f.id + "/tracking?token=cust"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	var u Update
	require.NoError(t, conn.ReadJSON(&u))
	assert.Equal(t, domain.BookingConfirmed, u.Status)

	_, err = f.svc.UpdateBookingTracking(context.Background(), f.id, Patch{Distance: ptr(0.0)})
	require.NoError(t, err)
	for u.Status != domain.BookingArrived {
		require.NoError(t, conn.ReadJSON(&u))
	}

	_, err = f.repos.Bookings.Mutate(context.Background(), f.id, func(b *domain.Booking) (bool, error) {
		b.Status = domain.BookingCancelled
		return true, nil
	})
	require.NoError(t, err)
	require.NoError(t, conn.ReadJSON(&u))
	assert.Equal(t, domain.BookingCancelled, u.Status)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestStream_RejectsStranger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t, domain.BookingConfirmed)
	h := NewHandler(f.svc, NewWatcher(f.svc, f.broker, 0, nil, nil), nil, nil)
	r := gin.New()
	ws := r.Group("/ws", func(c *gin.Context) {
		s := &auth.Session{UserID: c.Query("token"), Role: domain.RoleCustomer}
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), s))
	})
	h.RegisterStreamRoutes(ws)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws/bookings/"+f.id+"/tracking?token=intruder", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
