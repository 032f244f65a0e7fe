package tracking

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/zap"

	"homeclean/internal/domain"
)

const DefaultPollInterval = 3 * time.Second

// DefaultViewTerminal are the statuses after which the customer's tracking view
// has nothing more to show.
var DefaultViewTerminal = []domain.BookingStatus{
	domain.BookingInProgress,
	domain.BookingCancelled,
	domain.BookingDisputed,
	domain.BookingApproved,
}

type BookingReader interface {
	GetBookingWithTracking(ctx context.Context, bookingID string) (*domain.Booking, error)
}

// Watcher follows one booking for a viewer. Broker updates trigger an immediate
// read; the poll picks up writes made by other processes.
type Watcher struct {
	reader   BookingReader
	broker   *Broker
	interval time.Duration
	terminal map[domain.BookingStatus]bool
	log      *zap.Logger
}

func NewWatcher(reader BookingReader, broker *Broker, interval time.Duration, terminal []domain.BookingStatus, log *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if terminal == nil {
		terminal = DefaultViewTerminal
	}
	if log == nil {
		log = zap.NewNop()
	}
	set := make(map[domain.BookingStatus]bool, len(terminal))
	for _, s := range terminal {
		set[s] = true
	}
	return &Watcher{
		reader:   reader,
		broker:   broker,
		interval: interval,
		terminal: set,
		log:      log,
	}
}

// Watch emits the booking's current state and then every change to its status
// or tracking. The channel is closed after a terminal status is emitted, when
// the booking disappears, or when ctx ends.
func (w *Watcher) Watch(ctx context.Context, bookingID string) <-chan Update {
	out := make(chan Update, 1)
	sub, cancel := w.broker.Subscribe(ctx, bookingID)

	go func() {
		defer close(out)
		defer cancel()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		var last *Update
		check := func() bool {
			b, err := w.reader.GetBookingWithTracking(ctx, bookingID)
			if err != nil {
				if ctx.Err() == nil {
					w.log.Warn("tracking poll failed", zap.String("booking_id", bookingID), zap.Error(err))
				}
				return true
			}
			if b == nil {
				return false
			}
			u := Update{BookingID: b.ID, Status: b.Status, Tracking: b.Tracking, At: time.Now().UTC()}
			if last != nil && last.Status == u.Status && reflect.DeepEqual(last.Tracking, u.Tracking) {
				return true
			}
			select {
			case out <- u:
			case <-ctx.Done():
				return false
			}
			last = &u
			return !w.terminal[u.Status]
		}

		if !check() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub:
				if !ok {
					return
				}
			case <-ticker.C:
			}
			if !check() {
				return
			}
		}
	}()
	return out
}
