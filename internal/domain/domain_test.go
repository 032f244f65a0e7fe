package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	dallas = GeoPoint{Lat: 32.7767, Lng: -96.7970}
	austin = GeoPoint{Lat: 30.2672, Lng: -97.7431}
)

func TestDistanceMiles_DallasAustin(t *testing.T) {
	d := DistanceMiles(dallas, austin)
	assert.Greater(t, d, 150.0)
	assert.Less(t, d, 200.0)
	assert.InDelta(t, 0, DistanceMiles(dallas, dallas), 1e-9)
}

func TestCleanerCovers(t *testing.T) {
	austinJob := &austin

	near := Cleaner{BaseLocation: &dallas, ServiceRadius: 10}
	assert.False(t, near.Covers(austinJob))

	wide := Cleaner{BaseLocation: &dallas, ServiceRadius: 250}
	assert.True(t, wide.Covers(austinJob))

	anywhere := Cleaner{ServiceRadius: 0}
	assert.True(t, anywhere.Covers(austinJob))

	assert.True(t, near.Covers(nil))
}

func TestCanTransition(t *testing.T) {
	forward := []BookingStatus{
		BookingPlaced,
		BookingConfirmed,
		BookingOnTheWay,
		BookingArrived,
		BookingVerifying,
		BookingInProgress,
		BookingCompletedPendingApproval,
		BookingApproved,
	}
	for i := 0; i+1 < len(forward); i++ {
		assert.True(t, CanTransition(forward[i], forward[i+1]), "%s -> %s", forward[i], forward[i+1])
		assert.False(t, CanTransition(forward[i+1], forward[i]), "%s -> %s", forward[i+1], forward[i])
	}

	assert.False(t, CanTransition(BookingPlaced, BookingInProgress))
	assert.False(t, CanTransition(BookingArrived, BookingInProgress))

	for _, s := range forward[:len(forward)-1] {
		assert.True(t, CanTransition(s, BookingCancelled))
		assert.True(t, CanTransition(s, BookingDisputed))
	}
	for _, s := range []BookingStatus{BookingApproved, BookingCancelled, BookingDisputed} {
		assert.True(t, s.IsTerminal())
		assert.False(t, CanTransition(s, BookingCancelled))
	}
	assert.False(t, CanTransition("bogus", BookingConfirmed))
}

func TestSplitPayment(t *testing.T) {
	payout, fee := SplitPayment(120, 15)
	assert.Equal(t, 18.0, fee)
	assert.Equal(t, 102.0, payout)

	payout, fee = SplitPayment(99.99, 0)
	assert.Equal(t, 0.0, fee)
	assert.Equal(t, 99.99, payout)
}

func TestPromoDiscount(t *testing.T) {
	assert.Equal(t, 10.0, PromoCode{PercentOff: 10, Active: true}.Discount(100))
	assert.Equal(t, 0.0, PromoCode{PercentOff: 10, Active: false}.Discount(100))
	assert.Equal(t, 100.0, PromoCode{PercentOff: 150, Active: true}.Discount(100))
}

func TestConversationCounterpart(t *testing.T) {
	c := Conversation{CustomerID: "u1", CleanerUserID: "u2"}
	assert.Equal(t, "u2", c.Counterpart("u1"))
	assert.Equal(t, "u1", c.Counterpart("u2"))
	assert.Equal(t, "", c.Counterpart("u3"))
}

func TestBookingRedactedFor(t *testing.T) {
	b := Booking{VerificationCodes: &VerificationCodes{CustomerCode: "1111", CleanerCode: "2222"}}

	c := b.RedactedFor(RoleCustomer)
	assert.Equal(t, "1111", c.VerificationCodes.CustomerCode)
	assert.Empty(t, c.VerificationCodes.CleanerCode)

	cl := b.RedactedFor(RoleCleaner)
	assert.Empty(t, cl.VerificationCodes.CustomerCode)
	assert.Equal(t, "2222", cl.VerificationCodes.CleanerCode)

	// The original is untouched.
	assert.Equal(t, "2222", b.VerificationCodes.CleanerCode)
}
