package domain

import "time"

type NotificationType string

const (
	NotifJobOffer         NotificationType = "job_offer"
	NotifBookingConfirmed NotificationType = "booking_confirmed"
	NotifCleanerOnTheWay  NotificationType = "cleaner_on_the_way"
	NotifCleanerArrived   NotificationType = "cleaner_arrived"
	NotifJobStarted       NotificationType = "job_started"
	NotifJobSubmitted     NotificationType = "job_submitted"
	NotifJobApproved      NotificationType = "job_approved"
	NotifBookingCancelled NotificationType = "booking_cancelled"
	NotifBookingDisputed  NotificationType = "booking_disputed"
	NotifNewMessage       NotificationType = "new_message"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	RelatedID string           `json:"relatedId,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
