package auth

import (
	"context"
	"time"

	"homeclean/internal/domain"
)

// Session is the signed-in identity threaded explicitly through every call that
// needs to know who is acting.
type Session struct {
	ID        string          `json:"id"`
	Token     string          `json:"token"`
	UserID    string          `json:"userId"`
	Role      domain.UserRole `json:"role"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

func (s *Session) Is(role domain.UserRole) bool {
	return s != nil && s.Role == role
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session carried by ctx, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
