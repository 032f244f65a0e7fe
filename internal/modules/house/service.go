package house

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
)

type Service struct {
	houses HouseRepositoryInterface
	log    *zap.Logger
}

func NewService(houses HouseRepositoryInterface, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{houses: houses, log: log}
}

// AddHouse registers a house for the calling customer. Coordinates are optional
// but must come as a pair.
func (s *Service) AddHouse(ctx context.Context, session *auth.Session, req AddHouseRequest) (*domain.House, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	if !session.Is(domain.RoleCustomer) {
		return nil, ErrForbidden
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		return nil, ErrInvalidGeo
	}
	if req.Lat != nil && (*req.Lat < -90 || *req.Lat > 90 || *req.Lng < -180 || *req.Lng > 180) {
		return nil, ErrInvalidGeo
	}

	h := &domain.House{
		UserID: session.UserID,
		Name:   strings.TrimSpace(req.Name),
		Address: domain.Address{
			Street: strings.TrimSpace(req.Street),
			City:   strings.TrimSpace(req.City),
			Lat:    req.Lat,
			Lng:    req.Lng,
		},
	}
	if err := s.houses.Create(ctx, h); err != nil {
		return nil, err
	}
	s.log.Info("house added", zap.String("house_id", h.ID), zap.String("user_id", h.UserID))
	return h, nil
}

// ListMyHouses returns the caller's houses, oldest first.
func (s *Service) ListMyHouses(ctx context.Context, session *auth.Session) ([]domain.House, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	list, err := s.houses.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}
