package tracking

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"homeclean/internal/domain"
)

const (
	DefaultReportInterval = 3 * time.Second
	defaultSpeedMph       = 30.0
	// arrivalRadiusMiles is how close counts as being at the door.
	arrivalRadiusMiles = 0.05
)

// LocationSource yields the cleaner's successive positions. ok is false once the
// source has nothing more to report.
type LocationSource interface {
	Next(ctx context.Context) (pos domain.GeoPoint, ok bool, err error)
}

// Updater is the part of Service the reporter drives.
type Updater interface {
	UpdateBookingTracking(ctx context.Context, bookingID string, patch Patch) (bool, error)
	GetBookingWithTracking(ctx context.Context, bookingID string) (*domain.Booking, error)
}

// Reporter runs the cleaner side of a trip: it samples a LocationSource on an
// interval and reports distance and ETA to the booking's house.
type Reporter struct {
	updater  Updater
	houses   HouseRepository
	interval time.Duration
	speedMph float64
	log      *zap.Logger
}

func NewReporter(updater Updater, houses HouseRepository, interval time.Duration, log *zap.Logger) *Reporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{
		updater:  updater,
		houses:   houses,
		interval: interval,
		speedMph: defaultSpeedMph,
		log:      log,
	}
}

// Run reports until the cleaner arrives, an update is rejected, the source runs
// dry or ctx ends. The first sample is reported immediately.
func (r *Reporter) Run(ctx context.Context, bookingID string, source LocationSource) error {
	dest, err := r.destination(ctx, bookingID)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		done, err := r.tick(ctx, bookingID, dest, source)
		if err != nil || done {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Reporter) tick(ctx context.Context, bookingID string, dest domain.GeoPoint, source LocationSource) (bool, error) {
	pos, ok, err := source.Next(ctx)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}

	distance := domain.DistanceMiles(pos, dest)
	if distance <= arrivalRadiusMiles {
		distance = 0
	}
	eta := int(math.Ceil(distance / r.speedMph * 60))

	applied, err := r.updater.UpdateBookingTracking(ctx, bookingID, Patch{
		Lat:      &pos.Lat,
		Lng:      &pos.Lng,
		Distance: &distance,
		ETA:      &eta,
	})
	if err != nil {
		return true, err
	}
	if !applied {
		r.log.Info("tracking update rejected, stopping", zap.String("booking_id", bookingID))
		return true, nil
	}
	return distance == 0, nil
}

func (r *Reporter) destination(ctx context.Context, bookingID string) (domain.GeoPoint, error) {
	b, err := r.updater.GetBookingWithTracking(ctx, bookingID)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	if b == nil {
		return domain.GeoPoint{}, ErrBookingNotFound
	}
	house, err := r.houses.GetByID(ctx, b.HouseID)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	if house == nil || house.Address.Location() == nil {
		return domain.GeoPoint{}, ErrNoDestination
	}
	return *house.Address.Location(), nil
}

// RouteSource walks a straight line from From to To in Steps equal hops. The
// last position is exactly To.
type RouteSource struct {
	From  domain.GeoPoint
	To    domain.GeoPoint
	Steps int

	i int
}

func (s *RouteSource) Next(ctx context.Context) (domain.GeoPoint, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.GeoPoint{}, false, err
	}
	steps := s.Steps
	if steps < 1 {
		steps = 1
	}
	if s.i >= steps {
		return domain.GeoPoint{}, false, nil
	}
	s.i++
	f := float64(s.i) / float64(steps)
	return domain.GeoPoint{
		Lat: s.From.Lat + (s.To.Lat-s.From.Lat)*f,
		Lng: s.From.Lng + (s.To.Lng-s.From.Lng)*f,
	}, true, nil
}
