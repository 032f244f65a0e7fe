package house

type AddHouseRequest struct {
	Name   string   `json:"name" validate:"max=100"`
	Street string   `json:"street" validate:"required,max=255"`
	City   string   `json:"city" validate:"required,max=100"`
	Lat    *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng    *float64 `json:"lng" validate:"omitempty,longitude"`
}
