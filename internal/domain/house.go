package domain

import "time"

type Address struct {
	Street string   `json:"street"`
	City   string   `json:"city"`
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
}

// Location returns the geocoded point, or nil when the address has no coordinates.
func (a Address) Location() *GeoPoint {
	if a.Lat == nil || a.Lng == nil {
		return nil
	}
	return &GeoPoint{Lat: *a.Lat, Lng: *a.Lng}
}

type House struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name,omitempty"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}
