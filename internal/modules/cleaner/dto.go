package cleaner

import "homeclean/internal/domain"

// UpsertProfileRequest sets where the cleaner works. A null baseLocation means
// anywhere.
type UpsertProfileRequest struct {
	BaseLocation  *domain.GeoPoint `json:"baseLocation"`
	ServiceRadius float64          `json:"serviceRadius" validate:"gte=0,lte=500"`
}

type SetStatusRequest struct {
	Status domain.CleanerStatus `json:"status" validate:"required,oneof=active inactive"`
}
