package domain

import (
	"math"
	"time"
)

type TransactionType string

const (
	TxPayout      TransactionType = "payout"
	TxPlatformFee TransactionType = "platform_fee"
)

type Transaction struct {
	ID        string          `json:"id"`
	BookingID string          `json:"bookingId"`
	UserID    string          `json:"userId,omitempty"`
	Type      TransactionType `json:"type"`
	Amount    float64         `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SplitPayment divides total into the platform fee and the cleaner payout, both
// rounded to cents.
func SplitPayment(total, feePercent float64) (payout, fee float64) {
	fee = roundCents(total * feePercent / 100)
	return roundCents(total - fee), fee
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
