package repository

import (
	"context"
	"time"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type ReviewRepository struct {
	docs *docstore.Repository[domain.Review]
}

func NewReviewRepository(store *docstore.Store) *ReviewRepository {
	return &ReviewRepository{docs: docstore.NewRepository[domain.Review](store, docstore.Reviews)}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	_, err := r.docs.Add(ctx, review)
	return err
}

// Put writes review under its own id, replacing an earlier write with the same id.
func (r *ReviewRepository) Put(ctx context.Context, review *domain.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	return r.docs.Set(ctx, review.ID, review)
}

func (r *ReviewRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Review, error) {
	return r.docs.Query(ctx, "bookingId", bookingID)
}

func (r *ReviewRepository) ListBySubject(ctx context.Context, subjectID string) ([]domain.Review, error) {
	return r.docs.Query(ctx, "subjectId", subjectID)
}
