package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeclean/internal/docstore/docstoretest"
	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
	"homeclean/internal/pkg/push"
	"homeclean/internal/repository"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []push.Message
	err     error
	release chan struct{}
}

func (r *recordingSender) Send(ctx context.Context, msg push.Message) error {
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingSender) messages() []push.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]push.Message(nil), r.sent...)
}

func setup(t *testing.T, sender push.Sender) (*Service, *repository.Repositories) {
	repos := repository.New(docstoretest.New(t))
	return NewService(repos.Notifications, repos.Users, sender, nil), repos
}

func TestNotify_WritesInboxAndPushes(t *testing.T) {
	ctx := context.Background()
	sender := &recordingSender{}
	svc, repos := setup(t, sender)

	u := &domain.User{Email: "c@example.com", Role: domain.RoleCleaner, FCMToken: "device-1"}
	require.NoError(t, repos.Users.Create(ctx, u))

	n := &domain.Notification{UserID: u.ID, Type: domain.NotifJobOffer, Title: "New job", RelatedID: "booking_1"}
	require.NoError(t, svc.Notify(ctx, n))
	assert.NotEmpty(t, n.ID)
	svc.Wait()

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "device-1", sent[0].Token)
	assert.Equal(t, "booking_1", sent[0].Data["relatedId"])
	assert.Equal(t, n.ID, sent[0].Data["notificationId"])
}

func TestNotify_DoesNotWaitForPush(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sender := &recordingSender{release: make(chan struct{})}
	svc, repos := setup(t, sender)

	u := &domain.User{Email: "c@example.com", FCMToken: "device-1"}
	require.NoError(t, repos.Users.Create(ctx, u))

	done := make(chan error, 1)
	go func() {
		done <- svc.Notify(ctx, &domain.Notification{UserID: u.ID, Type: domain.NotifJobOffer})
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on the device push")
	}

	// The request ending must not cancel the push.
	cancel()
	close(sender.release)
	svc.Wait()
	assert.Len(t, sender.messages(), 1)
}

func TestNotify_PushFailureIsNotAnError(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t, &recordingSender{err: errors.New("fcm down")})

	u := &domain.User{Email: "c@example.com", FCMToken: "device-1"}
	require.NoError(t, repos.Users.Create(ctx, u))

	require.NoError(t, svc.Notify(ctx, &domain.Notification{UserID: u.ID, Type: domain.NotifJobOffer}))
	svc.Wait()
	list, err := repos.Notifications.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestInbox_ListMarkRead(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, nil)
	me := &auth.Session{UserID: "u1"}
	other := &auth.Session{UserID: "u2"}

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, &domain.Notification{UserID: "u1", Type: domain.NotifJobOffer}))
	}
	require.NoError(t, svc.Notify(ctx, &domain.Notification{UserID: "u2", Type: domain.NotifJobOffer}))

	list, unread, err := svc.ListMine(ctx, me, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 3, unread)

	assert.ErrorIs(t, svc.MarkRead(ctx, other, list[0].ID), ErrForbidden)
	assert.ErrorIs(t, svc.MarkRead(ctx, me, "notification_missing"), ErrNotificationNotFound)
	require.NoError(t, svc.MarkRead(ctx, me, list[0].ID))

	count, err := svc.UnreadCount(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	changed, err := svc.MarkAllRead(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	_, _, err = svc.ListMine(ctx, nil, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
