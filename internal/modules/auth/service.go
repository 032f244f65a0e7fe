package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"homeclean/internal/domain"
)

// Service owns accounts and sessions. Login creates a Session, Logout tears it
// down; nothing else keeps track of who is signed in.
type Service struct {
	users    UserRepositoryInterface
	tokens   tokenService
	sessions SessionStore
	log      *zap.Logger
}

func NewService(users UserRepositoryInterface, tokens tokenService, sessions SessionStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		log:      log,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	role := domain.UserRole(req.Role)
	if role != domain.RoleCustomer && role != domain.RoleCleaner {
		return nil, ErrInvalidRole
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// Login checks credentials and opens a new session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, nil, fmt.Errorf("issue token: %w", err)
	}

	session := &Session{
		ID:        claims.ID,
		Token:     token,
		UserID:    user.ID,
		Role:      user.Role,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("save session: %w", err)
	}

	s.log.Info("session opened", zap.String("user_id", user.ID), zap.String("session_id", session.ID))
	return session, user, nil
}

// Resolve maps a bearer token to its live session.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if session.UserID != claims.UserID || time.Now().After(session.ExpiresAt) {
		return nil, ErrUnauthorized
	}
	return session, nil
}

// Logout ends the session; later requests carrying its token are rejected.
func (s *Service) Logout(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrUnauthorized
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return err
	}
	s.log.Info("session closed", zap.String("user_id", session.UserID), zap.String("session_id", session.ID))
	return nil
}

func (s *Service) Me(ctx context.Context, session *Session) (*domain.User, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// SetPushToken records the device token used for push delivery.
func (s *Service) SetPushToken(ctx context.Context, session *Session, token string) error {
	if session == nil {
		return ErrUnauthorized
	}
	return s.users.SetFCMToken(ctx, session.UserID, strings.TrimSpace(token))
}
