package domain

// PlatformSettingsID is the id of the single document in the settings collection.
const PlatformSettingsID = "platform"

type PlatformSettings struct {
	ID                 string   `json:"id"`
	PlatformFeePercent *float64 `json:"platformFeePercent,omitempty"`
}
