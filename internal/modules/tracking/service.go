package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

// Patch is one trip tick from the cleaner's device. Nil fields keep their
// current value.
type Patch struct {
	Status   *string  `json:"status,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Distance *float64 `json:"distance,omitempty" validate:"omitempty,gte=0"`
	ETA      *int     `json:"eta,omitempty" validate:"omitempty,gte=0"`
}

const statusArrived = "arrived"

type Service struct {
	bookings BookingRepository
	notifier Notifier
	broker   *Broker
	log      *zap.Logger
	now      func() time.Time
}

func NewService(bookings BookingRepository, notifier Notifier, broker *Broker, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		bookings: bookings,
		notifier: notifier,
		broker:   broker,
		log:      log,
		now:      time.Now,
	}
}

// UpdateBookingTracking merges patch into the booking's tracking. The first
// tick of a confirmed booking puts the cleaner on the way; a zero distance or an
// explicit arrived status marks arrival. Bookings outside confirmed and
// on_the_way are left alone and false is returned.
func (s *Service) UpdateBookingTracking(ctx context.Context, bookingID string, patch Patch) (bool, error) {
	var (
		before  domain.BookingStatus
		updated domain.Booking
	)
	changed, err := s.bookings.Mutate(ctx, bookingID, func(b *domain.Booking) (bool, error) {
		if b.Status != domain.BookingConfirmed && b.Status != domain.BookingOnTheWay {
			return false, nil
		}
		before = b.Status

		t := domain.Tracking{}
		if b.Tracking != nil {
			t = *b.Tracking
		}
		if patch.Lat != nil {
			t.Lat = patch.Lat
		}
		if patch.Lng != nil {
			t.Lng = patch.Lng
		}
		if patch.Distance != nil {
			t.Distance = patch.Distance
		}
		if patch.ETA != nil {
			t.ETA = patch.ETA
		}
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		t.UpdatedAt = s.now().UTC()

		if b.Status == domain.BookingConfirmed {
			b.Status = domain.BookingOnTheWay
		}
		arrived := (patch.Distance != nil && *patch.Distance <= 0) ||
			(patch.Status != nil && *patch.Status == statusArrived)
		if arrived && domain.CanTransition(b.Status, domain.BookingArrived) {
			b.Status = domain.BookingArrived
			t.Status = statusArrived
		}
		if t.Status == "" {
			t.Status = string(b.Status)
		}

		b.Tracking = &t
		updated = *b
		return true, nil
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return false, ErrBookingNotFound
		}
		return false, err
	}
	if !changed {
		return false, nil
	}

	if updated.Status != before {
		s.log.Info("booking transition",
			zap.String("booking_id", bookingID),
			zap.String("from", string(before)),
			zap.String("to", string(updated.Status)))
	}

	s.broker.Publish(Update{
		BookingID: updated.ID,
		Status:    updated.Status,
		Tracking:  updated.Tracking,
		At:        updated.Tracking.UpdatedAt,
	})

	switch {
	case before == domain.BookingConfirmed:
		s.notify(ctx, &updated, domain.NotifCleanerOnTheWay, "Your cleaner is on the way",
			fmt.Sprintf("Booking %s: your cleaner has set off", updated.BookingID))
		if updated.Status == domain.BookingArrived {
			s.notifyArrived(ctx, &updated)
		}
	case updated.Status == domain.BookingArrived:
		s.notifyArrived(ctx, &updated)
	}
	return true, nil
}

func (s *Service) notifyArrived(ctx context.Context, b *domain.Booking) {
	s.notify(ctx, b, domain.NotifCleanerArrived, "Your cleaner has arrived",
		fmt.Sprintf("Booking %s: exchange codes to start the job", b.BookingID))
}

func (s *Service) notify(ctx context.Context, b *domain.Booking, typ domain.NotificationType, title, msg string) {
	err := s.notifier.Notify(ctx, &domain.Notification{
		UserID:    b.CustomerID,
		Type:      typ,
		Title:     title,
		Message:   msg,
		RelatedID: b.ID,
	})
	if err != nil {
		s.log.Warn("notification failed",
			zap.String("booking_id", b.ID),
			zap.String("type", string(typ)),
			zap.Error(err))
	}
}

// GetBookingWithTracking returns nil when the booking does not exist.
func (s *Service) GetBookingWithTracking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}
