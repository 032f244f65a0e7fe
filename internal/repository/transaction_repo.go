package repository

import (
	"context"
	"time"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type TransactionRepository struct {
	docs *docstore.Repository[domain.Transaction]
}

func NewTransactionRepository(store *docstore.Store) *TransactionRepository {
	return &TransactionRepository{docs: docstore.NewRepository[domain.Transaction](store, docstore.Transactions)}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	_, err := r.docs.Add(ctx, tx)
	return err
}

// Put writes tx under its own id, replacing an earlier write with the same id.
func (r *TransactionRepository) Put(ctx context.Context, tx *domain.Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	return r.docs.Set(ctx, tx.ID, tx)
}

func (r *TransactionRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Transaction, error) {
	return r.docs.Query(ctx, "bookingId", bookingID)
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return r.docs.Query(ctx, "userId", userID)
}
