package auth

import (
	"context"

	"homeclean/internal/domain"
	"homeclean/internal/pkg/jwt"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetFCMToken(ctx context.Context, id, token string) error
}

type tokenService interface {
	GenerateToken(userID, role string) (string, *jwt.Claims, error)
	ValidateToken(token string) (*jwt.Claims, error)
}
