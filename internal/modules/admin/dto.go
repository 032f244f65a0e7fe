package admin

type CreatePromoRequest struct {
	Code       string  `json:"code" validate:"required,min=3,max=32,alphanum"`
	PercentOff float64 `json:"percentOff" validate:"gt=0,lte=100"`
}

type SetPromoActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type PlatformSettingsRequest struct {
	PlatformFeePercent *float64 `json:"platformFeePercent" validate:"omitempty,gte=0,lte=100"`
}

// PlatformSettingsResponse shows the stored override next to the fee that is
// actually charged.
type PlatformSettingsResponse struct {
	PlatformFeePercent *float64 `json:"platformFeePercent"`
	EffectiveFee       float64  `json:"effectiveFeePercent"`
}
