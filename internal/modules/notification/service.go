package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
	"homeclean/internal/pkg/push"
)

const pushTimeout = 5 * time.Second

type Service struct {
	repo  NotificationRepositoryInterface
	users UserLookup
	push  push.Sender
	log   *zap.Logger

	pending sync.WaitGroup
}

func NewService(repo NotificationRepositoryInterface, users UserLookup, sender push.Sender, log *zap.Logger) *Service {
	if sender == nil {
		sender = push.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, users: users, push: sender, log: log}
}

// Notify stores n in the recipient's inbox and then pushes it to the device in
// the background. Only the inbox write can fail the call.
func (s *Service) Notify(ctx context.Context, n *domain.Notification) error {
	if n.UserID == "" {
		return fmt.Errorf("notify %s: empty recipient", n.Type)
	}
	n.Read = false
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("notify %s: %w", n.Type, err)
	}

	if _, ok := s.push.(push.Nop); ok || s.users == nil {
		return nil
	}
	sent := *n
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.deliver(context.WithoutCancel(ctx), &sent)
	}()
	return nil
}

// Wait blocks until every background push has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) deliver(ctx context.Context, n *domain.Notification) {
	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	user, err := s.users.GetByID(ctx, n.UserID)
	if err != nil || user == nil || user.FCMToken == "" {
		return
	}

	err = s.push.Send(ctx, push.Message{
		Token: user.FCMToken,
		Title: n.Title,
		Body:  n.Message,
		Data: map[string]string{
			"type":           string(n.Type),
			"relatedId":      n.RelatedID,
			"notificationId": n.ID,
		},
	})
	if err != nil {
		s.log.Warn("push delivery failed",
			zap.String("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.Error(err))
	}
}

// ListMine returns the caller's notifications newest first and the unread count.
func (s *Service) ListMine(ctx context.Context, session *auth.Session, limit int) ([]domain.Notification, int, error) {
	if session == nil {
		return nil, 0, ErrUnauthorized
	}
	list, err := s.repo.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, 0, err
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, unread, nil
}

func (s *Service) UnreadCount(ctx context.Context, session *auth.Session) (int, error) {
	_, unread, err := s.ListMine(ctx, session, 0)
	return unread, err
}

func (s *Service) MarkRead(ctx context.Context, session *auth.Session, id string) error {
	if session == nil {
		return ErrUnauthorized
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.UserID != session.UserID {
		return ErrForbidden
	}
	if n.Read {
		return nil
	}
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead returns how many notifications changed.
func (s *Service) MarkAllRead(ctx context.Context, session *auth.Session) (int, error) {
	list, _, err := s.ListMine(ctx, session, 0)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, n := range list {
		if n.Read {
			continue
		}
		if err := s.repo.MarkRead(ctx, n.ID); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
