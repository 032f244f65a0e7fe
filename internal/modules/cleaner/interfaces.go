package cleaner

import (
	"context"

	"homeclean/internal/domain"
)

type CleanerRepositoryInterface interface {
	Create(ctx context.Context, c *domain.Cleaner) error
	Save(ctx context.Context, c *domain.Cleaner) error
	GetByUserID(ctx context.Context, userID string) (*domain.Cleaner, error)
}
