// Package wallet shows a user the money side of their bookings.
package wallet

import (
	"context"
	"math"
	"sort"

	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
)

type TransactionLister interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}

type Wallet struct {
	UserID       string               `json:"userId"`
	Balance      float64              `json:"balance"`
	Transactions []domain.Transaction `json:"transactions"`
}

type Service struct {
	transactions TransactionLister
}

func NewService(transactions TransactionLister) *Service {
	return &Service{transactions: transactions}
}

// GetMyWallet sums the caller's payouts and lists them newest first.
func (s *Service) GetMyWallet(ctx context.Context, session *auth.Session) (*Wallet, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	list, err := s.transactions.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	w := &Wallet{UserID: session.UserID, Transactions: list}
	if w.Transactions == nil {
		w.Transactions = []domain.Transaction{}
	}
	for _, tx := range list {
		if tx.Type == domain.TxPayout {
			w.Balance += tx.Amount
		}
	}
	w.Balance = math.Round(w.Balance*100) / 100
	return w, nil
}
