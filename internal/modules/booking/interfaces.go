package booking

import (
	"context"

	"homeclean/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Mutate(ctx context.Context, id string, fn func(b *domain.Booking) (bool, error)) (bool, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListByCleanerUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
}

type HouseRepository interface {
	GetByID(ctx context.Context, id string) (*domain.House, error)
}

type CleanerRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Cleaner, error)
}

type PromoRepository interface {
	GetActiveByCode(ctx context.Context, code string) (*domain.PromoCode, error)
}

type SettingsRepository interface {
	Platform(ctx context.Context) (*domain.PlatformSettings, error)
}

// ReviewRepository and TransactionRepository write under caller-chosen ids so a
// retried settlement overwrites instead of duplicating.
type ReviewRepository interface {
	Put(ctx context.Context, r *domain.Review) error
}

type TransactionRepository interface {
	Put(ctx context.Context, tx *domain.Transaction) error
}

type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

// Broadcaster offers a newly placed booking to nearby cleaners.
type Broadcaster interface {
	BroadcastNewJob(ctx context.Context, b *domain.Booking) (int, error)
}

type BookingNumbers interface {
	BookingNumber() string
}
