package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
)

const previewLen = 80

type Service struct {
	chats    ChatRepositoryInterface
	bookings BookingLookup
	notifier Notifier
	pusher   Pusher
	log      *zap.Logger

	// mu keeps two first messages from opening two threads for one booking.
	mu sync.Mutex
}

func NewService(chats ChatRepositoryInterface, bookings BookingLookup, notifier Notifier, pusher Pusher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		chats:    chats,
		bookings: bookings,
		notifier: notifier,
		pusher:   pusher,
		log:      log,
	}
}

// SendMessage posts text to the booking's thread, opening it on first use, and
// tells the other party.
func (s *Service) SendMessage(ctx context.Context, session *auth.Session, bookingID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyContent
	}
	b, err := s.booking(ctx, session, bookingID)
	if err != nil {
		return nil, err
	}

	conv, err := s.conversation(ctx, b)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conv.ID,
		SenderID:       session.UserID,
		Text:           text,
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	conv.LastMessageAt = msg.CreatedAt
	if err := s.chats.TouchConversation(ctx, conv); err != nil {
		s.log.Warn("failed to touch conversation", zap.String("conversation_id", conv.ID), zap.Error(err))
	}

	recipient := conv.Counterpart(session.UserID)
	if s.pusher != nil {
		s.pusher.SendToUser(recipient, &WSEvent{
			Type:      EventNewMessage,
			BookingID: b.ID,
			Payload:   ToMessageResponse(msg, recipient),
		})
	}
	if err := s.notifier.Notify(ctx, &domain.Notification{
		UserID:    recipient,
		Type:      domain.NotifNewMessage,
		Title:     "New message",
		Message:   preview(text),
		RelatedID: b.ID,
	}); err != nil {
		s.log.Warn("notification failed", zap.String("booking_id", b.ID), zap.Error(err))
	}
	return msg, nil
}

// ListMessages returns the booking's thread oldest first; empty when nobody has
// written yet.
func (s *Service) ListMessages(ctx context.Context, session *auth.Session, bookingID string) ([]domain.Message, error) {
	b, err := s.booking(ctx, session, bookingID)
	if err != nil {
		return nil, err
	}
	conv, err := s.chats.GetConversationByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return []domain.Message{}, nil
	}
	return s.chats.ListMessages(ctx, conv.ID)
}

func (s *Service) booking(ctx context.Context, session *auth.Session, bookingID string) (*domain.Booking, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if !b.IsParty(session.UserID) {
		return nil, ErrNotParticipant
	}
	if b.CleanerUserID == "" {
		return nil, ErrNoCounterpart
	}
	return b, nil
}

func (s *Service) conversation(ctx context.Context, b *domain.Booking) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.chats.GetConversationByBooking(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	if conv != nil {
		return conv, nil
	}
	conv = &domain.Conversation{
		BookingID:     b.ID,
		CustomerID:    b.CustomerID,
		CleanerUserID: b.CleanerUserID,
		LastMessageAt: time.Now().UTC(),
	}
	if err := s.chats.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLen {
		return text
	}
	return string([]rune(text)[:previewLen]) + "…"
}
