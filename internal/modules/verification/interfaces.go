package verification

import (
	"context"

	"homeclean/internal/domain"
)

type BookingRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Mutate(ctx context.Context, id string, fn func(b *domain.Booking) (bool, error)) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}
