package domain

import "time"

type PromoCode struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	PercentOff float64   `json:"percentOff"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Discount returns the amount taken off total, rounded to cents.
func (p PromoCode) Discount(total float64) float64 {
	if !p.Active || p.PercentOff <= 0 {
		return 0
	}
	pct := p.PercentOff
	if pct > 100 {
		pct = 100
	}
	return roundCents(total * pct / 100)
}
