package repository

import (
	"context"
	"sort"
	"time"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type NotificationRepository struct {
	docs *docstore.Repository[domain.Notification]
}

func NewNotificationRepository(store *docstore.Store) *NotificationRepository {
	return &NotificationRepository{docs: docstore.NewRepository[domain.Notification](store, docstore.Notifications)}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.docs.Add(ctx, n)
	return err
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	return r.docs.Get(ctx, id)
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	list, err := r.docs.Query(ctx, "userId", userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// ListByRelated returns every notification pointing at relatedID.
func (r *NotificationRepository) ListByRelated(ctx context.Context, relatedID string) ([]domain.Notification, error) {
	return r.docs.Query(ctx, "relatedId", relatedID)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	return r.docs.Update(ctx, id, docstore.Document{"read": true})
}

// DeleteReadBefore removes read notifications created before cutoff and returns
// how many were deleted.
func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int, error) {
	read, err := r.docs.Query(ctx, "read", true)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, item := range read {
		if !item.CreatedAt.Before(cutoff) {
			continue
		}
		if err := r.docs.Delete(ctx, item.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
