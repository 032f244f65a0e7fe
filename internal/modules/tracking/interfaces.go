package tracking

import (
	"context"

	"homeclean/internal/domain"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Mutate(ctx context.Context, id string, fn func(b *domain.Booking) (bool, error)) (bool, error)
}

type HouseRepository interface {
	GetByID(ctx context.Context, id string) (*domain.House, error)
}

type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}
