package chat

import (
	"context"

	"homeclean/internal/domain"
)

type ChatRepositoryInterface interface {
	GetConversationByBooking(ctx context.Context, bookingID string) (*domain.Conversation, error)
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	TouchConversation(ctx context.Context, conv *domain.Conversation) error
	CreateMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
}

type BookingLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

// Pusher delivers a payload to a user's live connection, if they have one.
type Pusher interface {
	SendToUser(userID string, payload any) bool
}
