package review

import (
	"context"
	"math"
	"sort"

	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
)

const maxListed = 50

type Service struct {
	reviews ReviewRepositoryInterface
}

func NewService(reviews ReviewRepositoryInterface) *Service {
	return &Service{reviews: reviews}
}

// SummaryFor returns the reviews written about userID, newest first, with the
// average rating over all of them.
func (s *Service) SummaryFor(ctx context.Context, userID string) (*Summary, error) {
	if userID == "" {
		return nil, ErrInvalidRequest
	}
	list, err := s.reviews.ListBySubject(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	out := &Summary{UserID: userID, Count: len(list), Reviews: list}
	if len(list) > 0 {
		total := 0
		for _, r := range list {
			total += r.Rating
		}
		out.Average = math.Round(float64(total)/float64(len(list))*10) / 10
	}
	if len(out.Reviews) > maxListed {
		out.Reviews = out.Reviews[:maxListed]
	}
	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}
	return out, nil
}

func (s *Service) Mine(ctx context.Context, session *auth.Session) (*Summary, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	return s.SummaryFor(ctx, session.UserID)
}

func (s *Service) ForBooking(ctx context.Context, bookingID string) ([]domain.Review, error) {
	if bookingID == "" {
		return nil, ErrInvalidRequest
	}
	return s.reviews.ListByBooking(ctx, bookingID)
}
