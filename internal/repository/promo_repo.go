package repository

import (
	"context"
	"strings"

	"homeclean/internal/docstore"
	"homeclean/internal/domain"
)

type PromoRepository struct {
	docs *docstore.Repository[domain.PromoCode]
}

func NewPromoRepository(store *docstore.Store) *PromoRepository {
	return &PromoRepository{docs: docstore.NewRepository[domain.PromoCode](store, docstore.PromoCodes)}
}

// Create stores codes upper-cased so lookups are case-insensitive.
func (r *PromoRepository) Create(ctx context.Context, p *domain.PromoCode) error {
	p.Code = normalizeCode(p.Code)
	_, err := r.docs.Add(ctx, p)
	return err
}

// GetActiveByCode returns the active promo for code, or nil.
func (r *PromoRepository) GetActiveByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	list, err := r.docs.Query(ctx, "code", normalizeCode(code))
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Active {
			return &list[i], nil
		}
	}
	return nil, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *PromoRepository) List(ctx context.Context) ([]domain.PromoCode, error) {
	return r.docs.List(ctx)
}

// SetActive toggles the promo with id. It returns docstore.ErrNotFound for
// unknown ids.
func (r *PromoRepository) SetActive(ctx context.Context, id string, active bool) (*domain.PromoCode, error) {
	var out domain.PromoCode
	_, err := r.docs.Mutate(ctx, id, func(p *domain.PromoCode) (bool, error) {
		changed := p.Active != active
		p.Active = active
		out = *p
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
