package repository

import (
	"context"
	"sort"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type ChatRepository struct {
	conversations *docstore.Repository[domain.Conversation]
	messages      *docstore.Repository[domain.Message]
}

func NewChatRepository(store *docstore.Store) *ChatRepository {
	return &ChatRepository{
		conversations: docstore.NewRepository[domain.Conversation](store, docstore.Conversations),
		messages:      docstore.NewRepository[domain.Message](store, docstore.Messages),
	}
}

// GetConversationByBooking returns the booking's thread, or nil if none was started.
func (r *ChatRepository) GetConversationByBooking(ctx context.Context, bookingID string) (*domain.Conversation, error) {
	list, err := r.conversations.Query(ctx, "bookingId", bookingID)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func (r *ChatRepository) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	_, err := r.conversations.Add(ctx, conv)
	return err
}

func (r *ChatRepository) TouchConversation(ctx context.Context, conv *domain.Conversation) error {
	return r.conversations.Set(ctx, conv.ID, conv)
}

func (r *ChatRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	_, err := r.messages.Add(ctx, msg)
	return err
}

// ListMessages returns the thread oldest first.
func (r *ChatRepository) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	list, err := r.messages.Query(ctx, "conversationId", conversationID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}
