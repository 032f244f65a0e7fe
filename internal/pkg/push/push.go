// Package push delivers device notifications. Delivery is best effort: callers log
// failures and carry on.
package push

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var ErrNoToken = errors.New("recipient has no device token")

type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Nop drops every message. It is used when FCM is not configured.
type Nop struct{}

func (Nop) Send(context.Context, Message) error { return nil }

type FCMSender struct {
	client *messaging.Client
	log    *zap.Logger
}

// NewFCMSender initialises the Firebase app from a service account file.
func NewFCMSender(ctx context.Context, credentialsFile string, log *zap.Logger) (*FCMSender, error) {
	if log == nil {
		log = zap.NewNop()
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: messaging client: %w", err)
	}
	return &FCMSender{client: client, log: log}, nil
}

func (s *FCMSender) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return ErrNoToken
	}
	id, err := s.client.Send(ctx, &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	s.log.Debug("push sent", zap.String("message_id", id))
	return nil
}
