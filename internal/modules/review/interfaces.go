package review

import (
	"context"

	"homeclean/internal/domain"
)

type ReviewRepositoryInterface interface {
	ListBySubject(ctx context.Context, subjectID string) ([]domain.Review, error)
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Review, error)
}
