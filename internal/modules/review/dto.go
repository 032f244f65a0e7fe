package review

import "homeclean/internal/domain"

// Summary is what other users see about someone's track record.
type Summary struct {
	UserID  string          `json:"userId"`
	Count   int             `json:"count"`
	Average float64         `json:"average"`
	Reviews []domain.Review `json:"reviews"`
}
