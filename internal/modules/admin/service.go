// Package admin manages promo codes and platform settings.
package admin

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type Service struct {
	promos     PromoRepository
	settings   SettingsRepository
	defaultFee float64
	log        *zap.Logger
}

func NewService(promos PromoRepository, settings SettingsRepository, defaultFee float64, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{promos: promos, settings: settings, defaultFee: defaultFee, log: log}
}

// -------------------- Promo codes --------------------

func (s *Service) CreatePromo(ctx context.Context, req CreatePromoRequest) (*domain.PromoCode, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" || req.PercentOff <= 0 || req.PercentOff > 100 {
		return nil, ErrInvalidRequest
	}
	existing, err := s.promos.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCodeTaken
	}

	p := &domain.PromoCode{Code: code, PercentOff: req.PercentOff, Active: true}
	if err := s.promos.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("promo code created", zap.String("code", p.Code), zap.Float64("percent_off", p.PercentOff))
	return p, nil
}

func (s *Service) ListPromos(ctx context.Context) ([]domain.PromoCode, error) {
	list, err := s.promos.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (s *Service) SetPromoActive(ctx context.Context, id string, active bool) (*domain.PromoCode, error) {
	p, err := s.promos.SetActive(ctx, id, active)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

// -------------------- Settings --------------------

func (s *Service) GetPlatformSettings(ctx context.Context) (*PlatformSettingsResponse, error) {
	cur, err := s.settings.Platform(ctx)
	if err != nil {
		return nil, err
	}
	out := &PlatformSettingsResponse{EffectiveFee: s.defaultFee}
	if cur != nil && cur.PlatformFeePercent != nil {
		out.PlatformFeePercent = cur.PlatformFeePercent
		out.EffectiveFee = *cur.PlatformFeePercent
	}
	return out, nil
}

// UpdatePlatformSettings stores the fee override; a null fee removes it so the
// configured default applies again.
func (s *Service) UpdatePlatformSettings(ctx context.Context, req PlatformSettingsRequest) (*PlatformSettingsResponse, error) {
	if req.PlatformFeePercent != nil && (*req.PlatformFeePercent < 0 || *req.PlatformFeePercent > 100) {
		return nil, ErrInvalidRequest
	}
	if err := s.settings.SavePlatform(ctx, &domain.PlatformSettings{PlatformFeePercent: req.PlatformFeePercent}); err != nil {
		return nil, err
	}
	s.log.Info("platform settings updated")
	return s.GetPlatformSettings(ctx)
}
