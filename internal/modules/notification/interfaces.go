package notification

import (
	"context"

	"homeclean/internal/domain"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
