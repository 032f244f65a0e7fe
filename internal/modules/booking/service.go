package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
)

type Deps struct {
	Bookings     BookingRepository
	Houses       HouseRepository
	Cleaners     CleanerRepository
	Promos       PromoRepository
	Settings     SettingsRepository
	Reviews      ReviewRepository
	Transactions TransactionRepository
	Notifier     Notifier
	Broadcaster  Broadcaster
	Numbers      BookingNumbers
}

// Service drives a booking from placement to approval. Every transition is a
// guarded Mutate: if the booking is not in the expected state the call reports
// false and nothing is written.
type Service struct {
	Deps
	feePercent float64
	log        *zap.Logger
	now        func() time.Time
}

func NewService(deps Deps, feePercent float64, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Deps:       deps,
		feePercent: feePercent,
		log:        log,
		now:        time.Now,
	}
}

// CreateBooking places a booking on one of the customer's houses and offers it to
// nearby cleaners. It also returns the number of offers sent.
func (s *Service) CreateBooking(ctx context.Context, session *auth.Session, req CreateBookingRequest) (*domain.Booking, int, error) {
	if session == nil {
		return nil, 0, ErrUnauthorized
	}
	if !session.Is(domain.RoleCustomer) {
		return nil, 0, ErrForbidden
	}
	if req.TotalAmount <= 0 || len(req.RequestedSlots) == 0 {
		return nil, 0, ErrValidation
	}

	house, err := s.Houses.GetByID(ctx, req.HouseID)
	if err != nil {
		return nil, 0, err
	}
	if house == nil {
		return nil, 0, ErrHouseNotFound
	}
	if house.UserID != session.UserID {
		return nil, 0, ErrForbidden
	}

	b := &domain.Booking{
		BookingID:      s.Numbers.BookingNumber(),
		CustomerID:     session.UserID,
		HouseID:        house.ID,
		ServiceTypeID:  req.ServiceTypeID,
		AddOnIDs:       req.AddOnIDs,
		RequestedSlots: req.RequestedSlots,
		Status:         domain.BookingPlaced,
		TotalAmount:    req.TotalAmount,
	}
	if b.AddOnIDs == nil {
		b.AddOnIDs = []string{}
	}

	if code := strings.TrimSpace(req.PromoCode); code != "" {
		promo, err := s.Promos.GetActiveByCode(ctx, code)
		if err != nil {
			return nil, 0, err
		}
		if promo == nil {
			return nil, 0, ErrInvalidPromo
		}
		b.PromoCode = promo.Code
		b.DiscountAmount = promo.Discount(req.TotalAmount)
		b.TotalAmount = req.TotalAmount - b.DiscountAmount
	}

	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, 0, err
	}
	s.log.Info("booking placed",
		zap.String("booking_id", b.ID),
		zap.String("number", b.BookingID),
		zap.String("customer_id", b.CustomerID))

	offers, err := s.Broadcaster.BroadcastNewJob(ctx, b)
	if err != nil {
		s.log.Warn("job broadcast failed", zap.String("booking_id", b.ID), zap.Error(err))
	}
	return b, offers, nil
}

// AcceptJob lets a cleaner claim a placed booking. The first cleaner wins; later
// callers get false.
func (s *Service) AcceptJob(ctx context.Context, session *auth.Session, bookingID string) (bool, error) {
	if session == nil {
		return false, ErrUnauthorized
	}
	if !session.Is(domain.RoleCleaner) {
		return false, ErrForbidden
	}
	profile, err := s.Cleaners.GetByUserID(ctx, session.UserID)
	if err != nil {
		return false, err
	}
	if profile == nil {
		return false, ErrNoCleanerProfile
	}

	b, err := s.transition(ctx, bookingID, func(b *domain.Booking) bool {
		if b.Status != domain.BookingPlaced || !domain.CanTransition(b.Status, domain.BookingConfirmed) {
			return false
		}
		b.Status = domain.BookingConfirmed
		b.CleanerID = profile.ID
		b.CleanerUserID = session.UserID
		return true
	})
	if err != nil || b == nil {
		return false, err
	}

	s.notify(ctx, b.CustomerID, domain.NotifBookingConfirmed, b,
		"Your booking is confirmed",
		fmt.Sprintf("A cleaner accepted booking %s", b.BookingID))
	return true, nil
}

// SubmitJobForApproval closes out the work with a note and photos for the customer
// to review.
func (s *Service) SubmitJobForApproval(ctx context.Context, session *auth.Session, bookingID, note string, photos []string) (bool, error) {
	if _, err := s.loadAs(ctx, session, bookingID, domain.RoleCleaner); err != nil {
		return false, err
	}

	b, err := s.transition(ctx, bookingID, func(b *domain.Booking) bool {
		if b.Status != domain.BookingInProgress || !domain.CanTransition(b.Status, domain.BookingCompletedPendingApproval) {
			return false
		}
		now := s.now().UTC()
		b.Status = domain.BookingCompletedPendingApproval
		b.CompletionNote = strings.TrimSpace(note)
		b.FinalPhotos = append([]string{}, photos...)
		b.SubmittedAt = &now
		return true
	})
	if err != nil || b == nil {
		return false, err
	}

	s.notify(ctx, b.CustomerID, domain.NotifJobSubmitted, b,
		"Your cleaning is done",
		fmt.Sprintf("Review and approve booking %s", b.BookingID))
	return true, nil
}

// ApproveJob records the customer's rating, releases the payout and closes the
// booking. When an earlier approval closed the booking but failed to settle it,
// calling again finishes the settlement.
func (s *Service) ApproveJob(ctx context.Context, session *auth.Session, bookingID string, rating int, comment string) (bool, error) {
	if !domain.ValidRating(rating) {
		return false, ErrInvalidRating
	}
	if _, err := s.loadAs(ctx, session, bookingID, domain.RoleCustomer); err != nil {
		return false, err
	}

	b, err := s.transition(ctx, bookingID, func(b *domain.Booking) bool {
		if b.Status != domain.BookingCompletedPendingApproval || !domain.CanTransition(b.Status, domain.BookingApproved) {
			return false
		}
		now := s.now().UTC()
		b.Status = domain.BookingApproved
		b.Rating = rating
		b.ApprovedAt = &now
		return true
	})
	if err != nil {
		return false, err
	}
	if b == nil {
		b, err = s.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return false, err
		}
		if b == nil || b.Status != domain.BookingApproved || b.PaidOutAt != nil {
			return false, nil
		}
		s.log.Info("retrying settlement", zap.String("booking_id", b.ID))
	}

	if err := s.settle(ctx, b, comment); err != nil {
		return true, err
	}

	s.notify(ctx, b.CleanerUserID, domain.NotifJobApproved, b,
		"Job approved",
		fmt.Sprintf("Booking %s was approved and your payout released", b.BookingID))
	return true, nil
}

// settle writes the customer's review and the payment split, then marks the
// booking paid. Every write is keyed by the booking so it can be repeated.
func (s *Service) settle(ctx context.Context, b *domain.Booking, comment string) error {
	if err := s.Reviews.Put(ctx, &domain.Review{
		ID:         reviewID(b.ID, domain.RoleCustomer),
		BookingID:  b.ID,
		AuthorID:   b.CustomerID,
		AuthorRole: domain.RoleCustomer,
		SubjectID:  b.CleanerUserID,
		Rating:     b.Rating,
		Comment:    strings.TrimSpace(comment),
	}); err != nil {
		return fmt.Errorf("save review: %w", err)
	}

	if err := s.releasePayment(ctx, b); err != nil {
		return err
	}

	_, err := s.Bookings.Mutate(ctx, b.ID, func(cur *domain.Booking) (bool, error) {
		if cur.PaidOutAt != nil {
			return false, nil
		}
		now := s.now().UTC()
		cur.PaidOutAt = &now
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	return nil
}

func (s *Service) releasePayment(ctx context.Context, b *domain.Booking) error {
	feePercent := s.feePercent
	settings, err := s.Settings.Platform(ctx)
	if err != nil {
		return fmt.Errorf("load platform settings: %w", err)
	}
	if settings != nil && settings.PlatformFeePercent != nil {
		feePercent = *settings.PlatformFeePercent
	}

	payout, fee := domain.SplitPayment(b.TotalAmount, feePercent)
	if err := s.Transactions.Put(ctx, &domain.Transaction{
		ID:        transactionID(b.ID, domain.TxPayout),
		BookingID: b.ID,
		UserID:    b.CleanerUserID,
		Type:      domain.TxPayout,
		Amount:    payout,
	}); err != nil {
		return fmt.Errorf("save payout: %w", err)
	}
	if err := s.Transactions.Put(ctx, &domain.Transaction{
		ID:        transactionID(b.ID, domain.TxPlatformFee),
		BookingID: b.ID,
		Type:      domain.TxPlatformFee,
		Amount:    fee,
	}); err != nil {
		return fmt.Errorf("save platform fee: %w", err)
	}

	s.log.Info("payment released",
		zap.String("booking_id", b.ID),
		zap.Float64("payout", payout),
		zap.Float64("fee", fee))
	return nil
}

func transactionID(bookingID string, t domain.TransactionType) string {
	return "txn_" + bookingID + "_" + string(t)
}

func reviewID(bookingID string, author domain.UserRole) string {
	return "review_" + bookingID + "_" + string(author)
}

// RateCustomer stores the cleaner's rating of the customer once the work has been
// submitted. It does not move the booking and can only be done once.
func (s *Service) RateCustomer(ctx context.Context, session *auth.Session, bookingID string, rating int, comment string) (bool, error) {
	if !domain.ValidRating(rating) {
		return false, ErrInvalidRating
	}
	if _, err := s.loadAs(ctx, session, bookingID, domain.RoleCleaner); err != nil {
		return false, err
	}

	b, err := s.transition(ctx, bookingID, func(b *domain.Booking) bool {
		if b.Status != domain.BookingCompletedPendingApproval && b.Status != domain.BookingApproved {
			return false
		}
		if b.CustomerRating != 0 {
			return false
		}
		b.CustomerRating = rating
		return true
	})
	if err != nil || b == nil {
		return false, err
	}

	if err := s.Reviews.Put(ctx, &domain.Review{
		ID:         reviewID(b.ID, domain.RoleCleaner),
		BookingID:  b.ID,
		AuthorID:   b.CleanerUserID,
		AuthorRole: domain.RoleCleaner,
		SubjectID:  b.CustomerID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}); err != nil {
		return true, fmt.Errorf("save review: %w", err)
	}
	return true, nil
}

// CancelBooking is available to either party from any non-terminal status.
func (s *Service) CancelBooking(ctx context.Context, session *auth.Session, bookingID, reason string) (bool, error) {
	return s.sideExit(ctx, session, bookingID, domain.BookingCancelled, reason)
}

// DisputeBooking is available to either party from any non-terminal status.
func (s *Service) DisputeBooking(ctx context.Context, session *auth.Session, bookingID, reason string) (bool, error) {
	return s.sideExit(ctx, session, bookingID, domain.BookingDisputed, reason)
}

func (s *Service) sideExit(ctx context.Context, session *auth.Session, bookingID string, to domain.BookingStatus, reason string) (bool, error) {
	if _, err := s.loadAs(ctx, session, bookingID, ""); err != nil {
		return false, err
	}

	reason = strings.TrimSpace(reason)
	b, err := s.transition(ctx, bookingID, func(b *domain.Booking) bool {
		if !domain.CanTransition(b.Status, to) {
			return false
		}
		now := s.now().UTC()
		b.Status = to
		if to == domain.BookingCancelled {
			b.CancelledAt, b.CancellationReason = &now, reason
		} else {
			b.DisputedAt, b.DisputeReason = &now, reason
		}
		return true
	})
	if err != nil || b == nil {
		return false, err
	}

	other := b.CustomerID
	if session.UserID == b.CustomerID {
		other = b.CleanerUserID
	}
	if other != "" {
		typ, title := domain.NotifBookingCancelled, "Booking cancelled"
		if to == domain.BookingDisputed {
			typ, title = domain.NotifBookingDisputed, "Booking disputed"
		}
		s.notify(ctx, other, typ, b, title, fmt.Sprintf("Booking %s: %s", b.BookingID, reasonOr(reason)))
	}
	return true, nil
}

// GetBooking returns the booking as the caller may see it.
func (s *Service) GetBooking(ctx context.Context, session *auth.Session, bookingID string) (*domain.Booking, error) {
	b, err := s.loadAs(ctx, session, bookingID, "")
	if err != nil {
		return nil, err
	}
	view := b.RedactedFor(session.Role)
	return &view, nil
}

// ListMyBookings returns the caller's bookings, newest first.
func (s *Service) ListMyBookings(ctx context.Context, session *auth.Session) ([]domain.Booking, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}

	var (
		list []domain.Booking
		err  error
	)
	switch session.Role {
	case domain.RoleCustomer:
		list, err = s.Bookings.ListByCustomer(ctx, session.UserID)
	case domain.RoleCleaner:
		list, err = s.Bookings.ListByCleanerUser(ctx, session.UserID)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = list[i].RedactedFor(session.Role)
	}
	return list, nil
}

// ListOpenJobs returns placed bookings inside the calling cleaner's service area.
func (s *Service) ListOpenJobs(ctx context.Context, session *auth.Session) ([]domain.Booking, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	if !session.Is(domain.RoleCleaner) {
		return nil, ErrForbidden
	}
	profile, err := s.Cleaners.GetByUserID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoCleanerProfile
	}

	placed, err := s.Bookings.ListByStatus(ctx, domain.BookingPlaced)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(placed))
	for _, b := range placed {
		house, err := s.Houses.GetByID(ctx, b.HouseID)
		if err != nil {
			return nil, err
		}
		var loc *domain.GeoPoint
		if house != nil {
			loc = house.Address.Location()
		}
		if profile.Covers(loc) {
			out = append(out, b.RedactedFor(domain.RoleCleaner))
		}
	}
	return out, nil
}

// loadAs fetches the booking and checks the session is its customer or assigned
// cleaner. A non-empty role additionally pins which of the two it must be.
func (s *Service) loadAs(ctx context.Context, session *auth.Session, bookingID string, role domain.UserRole) (*domain.Booking, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if session.Is(domain.RoleAdmin) && role == "" {
		return b, nil
	}

	isCustomer := session.Is(domain.RoleCustomer) && b.CustomerID == session.UserID
	isCleaner := session.Is(domain.RoleCleaner) && b.CleanerUserID == session.UserID
	switch role {
	case domain.RoleCustomer:
		if !isCustomer {
			return nil, ErrForbidden
		}
	case domain.RoleCleaner:
		if !isCleaner {
			return nil, ErrForbidden
		}
	default:
		if !isCustomer && !isCleaner {
			return nil, ErrForbidden
		}
	}
	return b, nil
}

// transition applies fn inside Mutate and returns the updated booking, or nil
// when fn declined.
func (s *Service) transition(ctx context.Context, bookingID string, fn func(b *domain.Booking) bool) (*domain.Booking, error) {
	var updated domain.Booking
	changed, err := s.Bookings.Mutate(ctx, bookingID, func(b *domain.Booking) (bool, error) {
		from := b.Status
		if !fn(b) {
			return false, nil
		}
		updated = *b
		s.log.Info("booking transition",
			zap.String("booking_id", bookingID),
			zap.String("from", string(from)),
			zap.String("to", string(b.Status)))
		return true, nil
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !changed {
		return nil, nil
	}
	return &updated, nil
}

func (s *Service) notify(ctx context.Context, userID string, typ domain.NotificationType, b *domain.Booking, title, msg string) {
	if userID == "" {
		return
	}
	err := s.Notifier.Notify(ctx, &domain.Notification{
		UserID:    userID,
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

func reasonOr(reason string) string {
	if reason == "" {
		return "no reason given"
	}
	return reason
}
