package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
	"homeclean/internal/pkg/validator"
)

// Service runs the on-site handshake: each party reads out a code the other one
// types in, and work starts once both codes have been confirmed.
type Service struct {
	bookings BookingRepositoryInterface
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewService(bookings BookingRepositoryInterface, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		bookings: bookings,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// GenerateVerificationCodes moves an arrived booking to verifying with fresh codes.
// While already verifying it hands back the existing codes. ok is false for any
// other status.
func (s *Service) GenerateVerificationCodes(ctx context.Context, bookingID string) (*domain.VerificationCodes, bool, error) {
	var codes *domain.VerificationCodes
	ok := false

	_, err := s.bookings.Mutate(ctx, bookingID, func(b *domain.Booking) (bool, error) {
		if b.Status == domain.BookingVerifying {
			if b.VerificationCodes != nil {
				c := *b.VerificationCodes
				codes, ok = &c, true
			}
			return false, nil
		}
		if !domain.CanTransition(b.Status, domain.BookingVerifying) {
			return false, nil
		}

		customer, cleaner, err := newCodePair()
		if err != nil {
			return false, fmt.Errorf("generate codes: %w", err)
		}
		b.VerificationCodes = &domain.VerificationCodes{
			CustomerCode: customer,
			CleanerCode:  cleaner,
		}
		b.Status = domain.BookingVerifying

		c := *b.VerificationCodes
		codes, ok = &c, true
		return true, nil
	})
	if err != nil {
		return nil, false, mapErr(err)
	}
	return codes, ok, nil
}

// VerifyJobCode checks code against the other party's code: the customer types
// the cleaner's code and the cleaner types the customer's. A match sets the
// caller's flag. Mismatches change nothing and may be retried freely.
func (s *Service) VerifyJobCode(ctx context.Context, bookingID string, role domain.UserRole, code string) (bool, error) {
	if !validator.IsJobCode(code) {
		return false, ErrInvalidCode
	}
	if role != domain.RoleCustomer && role != domain.RoleCleaner {
		return false, ErrInvalidRole
	}

	matched := false
	_, err := s.bookings.Mutate(ctx, bookingID, func(b *domain.Booking) (bool, error) {
		v := b.VerificationCodes
		if v == nil {
			return false, nil
		}

		expected, verified := v.CleanerCode, &v.CustomerVerified
		if role == domain.RoleCleaner {
			expected, verified = v.CustomerCode, &v.CleanerVerified
		}
		if code != expected {
			return false, nil
		}
		if *verified {
			matched = true
			return false, nil
		}
		if b.Status != domain.BookingVerifying {
			return false, nil
		}

		*verified = true
		matched = true
		return true, nil
	})
	if err != nil {
		return false, mapErr(err)
	}
	return matched, nil
}

// CheckVerificationAndStart starts the job once both parties are verified. It
// returns true exactly once per booking.
func (s *Service) CheckVerificationAndStart(ctx context.Context, bookingID string) (bool, error) {
	var started domain.Booking
	changed, err := s.bookings.Mutate(ctx, bookingID, func(b *domain.Booking) (bool, error) {
		if b.Status != domain.BookingVerifying || !b.Verified() {
			return false, nil
		}
		if !domain.CanTransition(b.Status, domain.BookingInProgress) {
			return false, nil
		}
		now := s.now().UTC()
		b.Status = domain.BookingInProgress
		b.JobStartedAt = &now
		started = *b
		return true, nil
	})
	if err != nil {
		return false, mapErr(err)
	}
	if !changed {
		return false, nil
	}

	s.log.Info("job started", zap.String("booking_id", bookingID))
	if err := s.notifier.Notify(ctx, &domain.Notification{
		UserID:    started.CustomerID,
		Type:      domain.NotifJobStarted,
		Title:     "Your cleaning has started",
		Message:   fmt.Sprintf("Booking %s is now in progress", started.BookingID),
		RelatedID: started.ID,
	}); err != nil {
		s.log.Warn("job_started notification failed", zap.String("booking_id", bookingID), zap.Error(err))
	}
	return true, nil
}

// Booking returns the booking or ErrBookingNotFound.
func (s *Service) Booking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func mapErr(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrBookingNotFound
	}
	return err
}
