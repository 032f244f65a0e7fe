package chat

import (
	"time"

	"homeclean/internal/domain"
)

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type MessageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Text           string `json:"text"`
	IsMine         bool   `json:"isMine"`
	CreatedAt      string `json:"createdAt"`
}

// WSEvent is pushed to the recipient's live connection.
type WSEvent struct {
	Type      string           `json:"type"`
	BookingID string           `json:"bookingId"`
	Payload   *MessageResponse `json:"payload,omitempty"`
}

const EventNewMessage = "new_message"

func ToMessageResponse(m *domain.Message, currentUserID string) *MessageResponse {
	if m == nil {
		return nil
	}
	return &MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		IsMine:         m.SenderID == currentUserID,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}
