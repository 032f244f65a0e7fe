package domain

import "time"

type BookingStatus string

const (
	BookingPlaced                   BookingStatus = "placed"
	BookingConfirmed                BookingStatus = "confirmed"
	BookingOnTheWay                 BookingStatus = "on_the_way"
	BookingArrived                  BookingStatus = "arrived"
	BookingVerifying                BookingStatus = "verifying"
	BookingInProgress               BookingStatus = "in_progress"
	BookingCompletedPendingApproval BookingStatus = "completed_pending_approval"
	BookingApproved                 BookingStatus = "approved"
	BookingCancelled                BookingStatus = "cancelled"
	BookingDisputed                 BookingStatus = "disputed"
)

// bookingFlow is the forward path of a booking; cancelled and disputed are side
// exits available from every non-terminal state.
var bookingFlow = map[BookingStatus]BookingStatus{
	BookingPlaced:                   BookingConfirmed,
	BookingConfirmed:                BookingOnTheWay,
	BookingOnTheWay:                 BookingArrived,
	BookingArrived:                  BookingVerifying,
	BookingVerifying:                BookingInProgress,
	BookingInProgress:               BookingCompletedPendingApproval,
	BookingCompletedPendingApproval: BookingApproved,
}

func (s BookingStatus) Valid() bool {
	if _, ok := bookingFlow[s]; ok {
		return true
	}
	return s.IsTerminal()
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingApproved || s == BookingCancelled || s == BookingDisputed
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	if !from.Valid() || from.IsTerminal() {
		return false
	}
	if to == BookingCancelled || to == BookingDisputed {
		return true
	}
	return bookingFlow[from] == to
}

type VerificationCodes struct {
	CustomerCode     string `json:"customerCode"`
	CleanerCode      string `json:"cleanerCode"`
	CustomerVerified bool   `json:"customerVerified"`
	CleanerVerified  bool   `json:"cleanerVerified"`
}

// Tracking is the live trip state written by the cleaner while en route.
type Tracking struct {
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	Distance  *float64  `json:"distance,omitempty"` // miles to the house
	ETA       *int      `json:"eta,omitempty"`      // minutes
	Status    string    `json:"status,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TimeSlot struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type Booking struct {
	ID             string        `json:"id"`
	BookingID      string        `json:"bookingId"`
	CustomerID     string        `json:"customerId"`
	CleanerID      string        `json:"cleanerId,omitempty"`
	CleanerUserID  string        `json:"cleanerUserId,omitempty"`
	HouseID        string        `json:"houseId"`
	ServiceTypeID  string        `json:"serviceTypeId"`
	AddOnIDs       []string      `json:"addOnIds"`
	RequestedSlots []TimeSlot    `json:"requestedSlots"`
	Status         BookingStatus `json:"status"`
	TotalAmount    float64       `json:"totalAmount"`
	PromoCode      string        `json:"promoCode,omitempty"`
	DiscountAmount float64       `json:"discountAmount,omitempty"`

	VerificationCodes *VerificationCodes `json:"verificationCodes,omitempty"`
	Tracking          *Tracking          `json:"tracking,omitempty"`

	JobStartedAt   *time.Time `json:"jobStartedAt,omitempty"`
	CompletionNote string     `json:"completionNote,omitempty"`
	FinalPhotos    []string   `json:"finalPhotos,omitempty"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	PaidOutAt      *time.Time `json:"paidOutAt,omitempty"`
	Rating         int        `json:"rating,omitempty"`
	CustomerRating int        `json:"customerRating,omitempty"`

	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
	DisputedAt         *time.Time `json:"disputedAt,omitempty"`
	DisputeReason      string     `json:"disputeReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Verified reports whether both parties have confirmed each other's code.
func (b *Booking) Verified() bool {
	v := b.VerificationCodes
	return v != nil && v.CustomerVerified && v.CleanerVerified
}

// IsParty reports whether userID is the booking's customer or assigned cleaner.
func (b *Booking) IsParty(userID string) bool {
	return userID != "" && (b.CustomerID == userID || b.CleanerUserID == userID)
}

// RedactedFor returns a copy safe to show to role: each party only ever sees its
// own verification code.
func (b Booking) RedactedFor(role UserRole) Booking {
	if b.VerificationCodes == nil || role == RoleAdmin {
		return b
	}
	v := *b.VerificationCodes
	switch role {
	case RoleCustomer:
		v.CleanerCode = ""
	case RoleCleaner:
		v.CustomerCode = ""
	default:
		v.CustomerCode, v.CleanerCode = "", ""
	}
	b.VerificationCodes = &v
	return b
}
