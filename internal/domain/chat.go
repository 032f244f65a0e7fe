package domain

import "time"

// Conversation is the message thread between the two parties of a booking.
type Conversation struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"bookingId"`
	CustomerID    string    `json:"customerId"`
	CleanerUserID string    `json:"cleanerUserId"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Counterpart returns the other participant, or "" when userID is not in the thread.
func (c *Conversation) Counterpart(userID string) string {
	switch userID {
	case c.CustomerID:
		return c.CleanerUserID
	case c.CleanerUserID:
		return c.CustomerID
	}
	return ""
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}
