package domain

import "time"

type CleanerStatus string

const (
	CleanerActive   CleanerStatus = "active"
	CleanerInactive CleanerStatus = "inactive"
)

type Cleaner struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	// BaseLocation nil means the cleaner takes jobs anywhere.
	BaseLocation  *GeoPoint     `json:"baseLocation"`
	ServiceRadius float64       `json:"serviceRadius"`
	Status        CleanerStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Covers reports whether a job at loc is within the cleaner's service area.
// A cleaner without a base location, or a job without coordinates, always matches.
func (c Cleaner) Covers(loc *GeoPoint) bool {
	if c.BaseLocation == nil || loc == nil {
		return true
	}
	return DistanceMiles(*c.BaseLocation, *loc) <= c.ServiceRadius
}
