package booking

import "homeclean/internal/domain"

type CreateBookingRequest struct {
	HouseID        string            `json:"houseId" validate:"required"`
	ServiceTypeID  string            `json:"serviceTypeId" validate:"required"`
	AddOnIDs       []string          `json:"addOnIds"`
	RequestedSlots []domain.TimeSlot `json:"requestedSlots" validate:"required,min=1,dive"`
	TotalAmount    float64           `json:"totalAmount" validate:"gt=0"`
	PromoCode      string            `json:"promoCode,omitempty"`
}

type SubmitJobRequest struct {
	Note   string   `json:"note" validate:"max=2000"`
	Photos []string `json:"photos" validate:"dive,required"`
}

type RatingRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=1000"`
}

type ReasonRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}
