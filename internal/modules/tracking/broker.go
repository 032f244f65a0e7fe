package tracking

import (
	"context"
	"sync"
	"time"

	"homeclean/internal/domain"
)

// Update is one observed state of a booking's trip.
type Update struct {
	BookingID string               `json:"bookingId"`
	Status    domain.BookingStatus `json:"status"`
	Tracking  *domain.Tracking     `json:"tracking,omitempty"`
	At        time.Time            `json:"at"`
}

const subscriberBuffer = 16

type subscriber struct {
	ch   chan Update
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// Broker fans tracking updates out to in-process subscribers of a booking.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[*subscriber]struct{})}
}

// Subscribe returns a channel of updates for bookingID. The subscription ends,
// and the channel is closed, when ctx is done or cancel is called.
func (b *Broker) Subscribe(ctx context.Context, bookingID string) (<-chan Update, func()) {
	s := &subscriber{ch: make(chan Update, subscriberBuffer)}

	b.mu.Lock()
	set, ok := b.subs[bookingID]
	if !ok {
		set = make(map[*subscriber]struct{})
		b.subs[bookingID] = set
	}
	set[s] = struct{}{}
	b.mu.Unlock()

	stop := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(stop)
			b.remove(bookingID, s)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-stop:
		}
	}()
	return s.ch, cancel
}

func (b *Broker) remove(bookingID string, s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[bookingID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(b.subs, bookingID)
		}
	}
	s.close()
}

// Publish delivers u to every subscriber of its booking. Slow subscribers miss
// the update; the watcher's poll catches them up.
func (b *Broker) Publish(u Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs[u.BookingID] {
		select {
		case s.ch <- u:
		default:
		}
	}
}

// Subscribers reports how many live subscriptions bookingID has.
func (b *Broker) Subscribers(bookingID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[bookingID])
}
