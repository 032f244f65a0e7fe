package repository

import (
	"context"
	"sort"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type BookingRepository struct {
	docs *docstore.Repository[domain.Booking]
}

func NewBookingRepository(store *docstore.Store) *BookingRepository {
	return &BookingRepository{docs: docstore.NewRepository[domain.Booking](store, docstore.Bookings)}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	_, err := r.docs.Add(ctx, b)
	return err
}

// GetByID returns nil when the booking does not exist.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.docs.Get(ctx, id)
}

// Mutate applies fn to the current booking atomically and persists it when fn
// reports a change. It returns docstore.ErrNotFound for unknown ids.
func (r *BookingRepository) Mutate(ctx context.Context, id string, fn func(b *domain.Booking) (bool, error)) (bool, error) {
	return r.docs.Mutate(ctx, id, fn)
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	list, err := r.docs.Query(ctx, "customerId", customerID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(list)
	return list, nil
}

func (r *BookingRepository) ListByCleanerUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	list, err := r.docs.Query(ctx, "cleanerUserId", userID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(list)
	return list, nil
}

func (r *BookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	return r.docs.Query(ctx, "status", string(status))
}

func sortNewestFirst(list []domain.Booking) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
