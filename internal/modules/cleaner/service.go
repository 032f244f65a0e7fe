package cleaner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
)

const defaultServiceRadius = 25.0

type Service struct {
	cleaners CleanerRepositoryInterface
	log      *zap.Logger
	now      func() time.Time
}

func NewService(cleaners CleanerRepositoryInterface, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cleaners: cleaners, log: log, now: time.Now}
}

// UpsertProfile creates the caller's profile on first use and updates its service
// area afterwards. New profiles start active.
func (s *Service) UpsertProfile(ctx context.Context, session *auth.Session, req UpsertProfileRequest) (*domain.Cleaner, error) {
	if err := requireCleaner(session); err != nil {
		return nil, err
	}
	if req.ServiceRadius < 0 {
		return nil, ErrInvalidRadius
	}
	radius := req.ServiceRadius
	if radius == 0 {
		radius = defaultServiceRadius
	}

	existing, err := s.cleaners.GetByUserID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		c := &domain.Cleaner{
			UserID:        session.UserID,
			BaseLocation:  req.BaseLocation,
			ServiceRadius: radius,
			Status:        domain.CleanerActive,
		}
		if err := s.cleaners.Create(ctx, c); err != nil {
			return nil, err
		}
		s.log.Info("cleaner profile created", zap.String("cleaner_id", c.ID), zap.String("user_id", c.UserID))
		return c, nil
	}

	existing.BaseLocation = req.BaseLocation
	existing.ServiceRadius = radius
	existing.UpdatedAt = s.now().UTC()
	if err := s.cleaners.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// SetStatus toggles whether the cleaner receives job offers.
func (s *Service) SetStatus(ctx context.Context, session *auth.Session, status domain.CleanerStatus) (*domain.Cleaner, error) {
	if err := requireCleaner(session); err != nil {
		return nil, err
	}
	if status != domain.CleanerActive && status != domain.CleanerInactive {
		return nil, ErrInvalidStatus
	}

	c, err := s.GetMyProfile(ctx, session)
	if err != nil {
		return nil, err
	}
	if c.Status == status {
		return c, nil
	}
	c.Status = status
	c.UpdatedAt = s.now().UTC()
	if err := s.cleaners.Save(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("cleaner status changed", zap.String("cleaner_id", c.ID), zap.String("status", string(status)))
	return c, nil
}

func (s *Service) GetMyProfile(ctx context.Context, session *auth.Session) (*domain.Cleaner, error) {
	if err := requireCleaner(session); err != nil {
		return nil, err
	}
	c, err := s.cleaners.GetByUserID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrProfileNotFound
	}
	return c, nil
}

func requireCleaner(session *auth.Session) error {
	if session == nil {
		return ErrUnauthorized
	}
	if !session.Is(domain.RoleCleaner) {
		return ErrForbidden
	}
	return nil
}
