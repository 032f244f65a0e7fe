package docstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Repository is a typed view over one collection. T must round-trip through JSON
// and carry its id in an "id" field.
type Repository[T any] struct {
	store *Store
	coll  Collection
}

func NewRepository[T any](store *Store, coll Collection) *Repository[T] {
	return &Repository[T]{store: store, coll: coll}
}

func (r *Repository[T]) Collection() Collection {
	return r.coll
}

// Get returns nil, nil when the record does not exist.
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := r.store.GetDoc(ctx, r.coll, id)
	if err != nil || doc == nil {
		return nil, err
	}
	return fromDocument[T](doc)
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	docs, err := r.store.GetDocs(ctx, r.coll)
	if err != nil {
		return nil, err
	}
	return fromDocuments[T](docs)
}

func (r *Repository[T]) Query(ctx context.Context, field string, value any) ([]T, error) {
	docs, err := r.store.QueryDocs(ctx, r.coll, field, value)
	if err != nil {
		return nil, err
	}
	return fromDocuments[T](docs)
}

// Add stores v under a new id and refreshes v with the stored record.
func (r *Repository[T]) Add(ctx context.Context, v *T) (string, error) {
	doc, err := toDocument(v)
	if err != nil {
		return "", err
	}
	delete(doc, FieldID)

	id, err := r.store.AddDoc(ctx, r.coll, doc)
	if err != nil {
		return "", err
	}
	stored, err := r.store.GetDoc(ctx, r.coll, id)
	if err != nil {
		return "", err
	}
	if stored != nil {
		if err := decodeInto(stored, v); err != nil {
			return "", err
		}
	}
	return id, nil
}

func (r *Repository[T]) Set(ctx context.Context, id string, v *T) error {
	doc, err := toDocument(v)
	if err != nil {
		return err
	}
	return r.store.SetDoc(ctx, r.coll, id, doc)
}

func (r *Repository[T]) Update(ctx context.Context, id string, partial Document) error {
	return r.store.UpdateDoc(ctx, r.coll, id, partial)
}

// Mutate loads the record, lets fn edit it in place and writes it back when fn
// reports a change. The whole step is atomic with respect to other store calls.
func (r *Repository[T]) Mutate(ctx context.Context, id string, fn func(v *T) (bool, error)) (bool, error) {
	return r.store.Mutate(ctx, r.coll, id, func(current Document) (Document, bool, error) {
		v, err := fromDocument[T](current)
		if err != nil {
			return nil, false, err
		}
		changed, err := fn(v)
		if err != nil || !changed {
			return nil, false, err
		}
		next, err := toDocument(v)
		if err != nil {
			return nil, false, err
		}
		return next, true, nil
	})
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.store.DeleteDoc(ctx, r.coll, id)
}

func toDocument(v any) (Document, error) {
	doc, err := normalize(v)
	if err != nil {
		return nil, fmt.Errorf("to document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

func fromDocument[T any](doc Document) (*T, error) {
	var v T
	if err := decodeInto(doc, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func fromDocuments[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := fromDocument[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func decodeInto(doc Document, v any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
