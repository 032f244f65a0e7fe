package repository

import (
	"context"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type HouseRepository struct {
	docs *docstore.Repository[domain.House]
}

func NewHouseRepository(store *docstore.Store) *HouseRepository {
	return &HouseRepository{docs: docstore.NewRepository[domain.House](store, docstore.Houses)}
}

func (r *HouseRepository) Create(ctx context.Context, h *domain.House) error {
	_, err := r.docs.Add(ctx, h)
	return err
}

func (r *HouseRepository) GetByID(ctx context.Context, id string) (*domain.House, error) {
	return r.docs.Get(ctx, id)
}

func (r *HouseRepository) ListByUser(ctx context.Context, userID string) ([]domain.House, error) {
	return r.docs.Query(ctx, "userId", userID)
}
