package repository

import (
	"context"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type CleanerRepository struct {
	docs *docstore.Repository[domain.Cleaner]
}

func NewCleanerRepository(store *docstore.Store) *CleanerRepository {
	return &CleanerRepository{docs: docstore.NewRepository[domain.Cleaner](store, docstore.Cleaners)}
}

func (r *CleanerRepository) Create(ctx context.Context, c *domain.Cleaner) error {
	_, err := r.docs.Add(ctx, c)
	return err
}

func (r *CleanerRepository) Save(ctx context.Context, c *domain.Cleaner) error {
	return r.docs.Set(ctx, c.ID, c)
}

func (r *CleanerRepository) GetByID(ctx context.Context, id string) (*domain.Cleaner, error) {
	return r.docs.Get(ctx, id)
}

// GetByUserID returns the profile owned by userID, or nil.
func (r *CleanerRepository) GetByUserID(ctx context.Context, userID string) (*domain.Cleaner, error) {
	list, err := r.docs.Query(ctx, "userId", userID)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func (r *CleanerRepository) ListActive(ctx context.Context) ([]domain.Cleaner, error) {
	return r.docs.Query(ctx, "status", string(domain.CleanerActive))
}
