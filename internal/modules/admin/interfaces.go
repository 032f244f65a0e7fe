package admin

import (
	"context"

	"homeclean/internal/domain"
)

type PromoRepository interface {
	Create(ctx context.Context, p *domain.PromoCode) error
	List(ctx context.Context) ([]domain.PromoCode, error)
	GetActiveByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.PromoCode, error)
}

type SettingsRepository interface {
	Platform(ctx context.Context) (*domain.PlatformSettings, error)
	SavePlatform(ctx context.Context, s *domain.PlatformSettings) error
}
