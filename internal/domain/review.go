package domain

import "time"

type Review struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"bookingId"`
	AuthorID   string    `json:"authorId"`
	AuthorRole UserRole  `json:"authorRole"`
	SubjectID  string    `json:"subjectId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
