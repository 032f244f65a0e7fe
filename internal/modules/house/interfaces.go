package house

import (
	"context"

	"homeclean/internal/domain"
)

type HouseRepositoryInterface interface {
	Create(ctx context.Context, h *domain.House) error
	ListByUser(ctx context.Context, userID string) ([]domain.House, error)
}
