package docstore

import "context"

// Record is a stored document body as the backend sees it.
type Record struct {
	ID   string
	Body []byte
}

// Backend persists raw JSON bodies per collection. Implementations must be safe for
// concurrent use and must have completed the write when Put/Delete/Clear return.
type Backend interface {
	Put(ctx context.Context, coll Collection, id string, body []byte) error
	// Get returns ErrNotFound when the record does not exist.
	Get(ctx context.Context, coll Collection, id string) ([]byte, error)
	// List returns the collection ordered by id.
	List(ctx context.Context, coll Collection) ([]Record, error)
	Delete(ctx context.Context, coll Collection, id string) (bool, error)
	Clear(ctx context.Context, coll Collection) error
}

// Replacer is implemented by backends that can swap whole collections in one
// transaction. Each collection in sets ends up holding exactly its records.
type Replacer interface {
	Replace(ctx context.Context, sets map[Collection][]Record) error
}
