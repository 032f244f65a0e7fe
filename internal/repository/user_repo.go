package repository

import (
	"context"
	"strings"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type UserRepository struct {
	docs *docstore.Repository[domain.User]
}

func NewUserRepository(store *docstore.Store) *UserRepository {
	return &UserRepository{docs: docstore.NewRepository[domain.User](store, docstore.Users)}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	_, err := r.docs.Add(ctx, u)
	return err
}

// GetByID returns nil when the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.docs.Get(ctx, id)
}

// GetByEmail returns nil when no user has the address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := r.docs.Query(ctx, "email", normalizeEmail(email))
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return &users[0], nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

func (r *UserRepository) SetFCMToken(ctx context.Context, id, token string) error {
	return r.docs.Update(ctx, id, docstore.Document{"fcmToken": token})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
