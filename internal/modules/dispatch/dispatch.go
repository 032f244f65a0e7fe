// Package dispatch offers new jobs to the cleaners whose service area covers them.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"homeclean/internal/domain"
)

type CleanerLister interface {
	ListActive(ctx context.Context) ([]domain.Cleaner, error)
}

type HouseLookup interface {
	GetByID(ctx context.Context, id string) (*domain.House, error)
}

type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

type Dispatcher struct {
	cleaners CleanerLister
	houses   HouseLookup
	notifier Notifier
	log      *zap.Logger
}

func New(cleaners CleanerLister, houses HouseLookup, notifier Notifier, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		cleaners: cleaners,
		houses:   houses,
		notifier: notifier,
		log:      log,
	}
}

// BroadcastNewJob writes one job_offer notification per active cleaner whose area
// covers the booking's house and returns how many were written. A failed offer
// does not stop the others; the failures come back joined. Calling it again
// offers the job again; finding nobody is not an error.
func (d *Dispatcher) BroadcastNewJob(ctx context.Context, booking *domain.Booking) (int, error) {
	active, err := d.cleaners.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active cleaners: %w", err)
	}

	loc, err := d.jobLocation(ctx, booking.HouseID)
	if err != nil {
		return 0, err
	}

	var errs []error
	sent := 0
	for _, c := range active {
		if !c.Covers(loc) {
			continue
		}
		n := &domain.Notification{
			UserID:    c.UserID,
			Type:      domain.NotifJobOffer,
			Title:     "New cleaning job nearby",
			Message:   fmt.Sprintf("Booking %s is looking for a cleaner", booking.BookingID),
			RelatedID: booking.ID,
		}
		if err := d.notifier.Notify(ctx, n); err != nil {
			d.log.Warn("job offer failed",
				zap.String("booking_id", booking.ID),
				zap.String("cleaner_user_id", c.UserID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("offer to %s: %w", c.UserID, err))
			continue
		}
		sent++
	}

	d.log.Info("job broadcast",
		zap.String("booking_id", booking.ID),
		zap.Int("active_cleaners", len(active)),
		zap.Int("offers", sent),
		zap.Int("failed", len(errs)))
	return sent, errors.Join(errs...)
}

// jobLocation returns nil when the house is unknown or not geocoded, in which case
// every active cleaner is offered the job.
func (d *Dispatcher) jobLocation(ctx context.Context, houseID string) (*domain.GeoPoint, error) {
	if houseID == "" {
		return nil, nil
	}
	house, err := d.houses.GetByID(ctx, houseID)
	if err != nil {
		return nil, fmt.Errorf("load house %s: %w", houseID, err)
	}
	if house == nil {
		return nil, nil
	}
	return house.Address.Location(), nil
}
