package repository

import (
	"context"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type SettingsRepository struct {
	docs *docstore.Repository[domain.PlatformSettings]
}

func NewSettingsRepository(store *docstore.Store) *SettingsRepository {
	return &SettingsRepository{docs: docstore.NewRepository[domain.PlatformSettings](store, docstore.Settings)}
}

// Platform returns the platform settings document, or nil when none was saved.
func (r *SettingsRepository) Platform(ctx context.Context) (*domain.PlatformSettings, error) {
	return r.docs.Get(ctx, domain.PlatformSettingsID)
}

func (r *SettingsRepository) SavePlatform(ctx context.Context, s *domain.PlatformSettings) error {
	s.ID = domain.PlatformSettingsID
	return r.docs.Set(ctx, s.ID, s)
}
