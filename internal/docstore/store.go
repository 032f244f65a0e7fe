package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"homeclean/internal/pkg/idgen"
)

// Store is the document API used by every module.
type Store struct {
	backend Backend
	ids     *idgen.Generator
	log     *zap.Logger
	now     func() time.Time

	// mu orders writes against reads so that a returned write is what the next
	// read observes, and makes Mutate a single step for other callers.
	mu sync.RWMutex
}

func New(backend Backend, ids *idgen.Generator, log *zap.Logger) *Store {
	if ids == nil {
		ids = idgen.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		backend: backend,
		ids:     ids,
		log:     log,
		now:     time.Now,
	}
}

func (s *Store) IDs() *idgen.Generator {
	return s.ids
}

// GenerateID returns an id unique within the process for prefix.
func (s *Store) GenerateID(prefix string) string {
	return s.ids.New(prefix)
}

// AddDoc stores data under a freshly generated id and returns it.
func (s *Store) AddDoc(ctx context.Context, coll Collection, data Document) (string, error) {
	if !coll.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCollection, coll)
	}
	doc, err := normalize(data)
	if err != nil {
		return "", fmt.Errorf("add %s: %w", coll, err)
	}
	if doc == nil {
		doc = Document{}
	}

	id := s.GenerateID(coll.IDPrefix())
	doc[FieldID] = id
	if isMissingTime(doc[FieldCreatedAt]) {
		doc[FieldCreatedAt] = s.timestamp()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.put(ctx, coll, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// SetDoc replaces the whole record at id.
func (s *Store) SetDoc(ctx context.Context, coll Collection, id string, data Document) error {
	if err := checkKey(coll, id); err != nil {
		return err
	}
	doc, err := normalize(data)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", coll, id, err)
	}
	if doc == nil {
		doc = Document{}
	}
	doc[FieldID] = id

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, coll, id, doc)
}

// UpdateDoc merges partial onto the existing record, top-level keys only.
// It returns ErrNotFound when there is nothing to update.
func (s *Store) UpdateDoc(ctx context.Context, coll Collection, id string, partial Document) error {
	if err := checkKey(coll, id); err != nil {
		return err
	}
	patch, err := normalize(partial)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", coll, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.get(ctx, coll, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("update %s/%s: %w", coll, id, ErrNotFound)
	}
	for k, v := range patch {
		current[k] = v
	}
	current[FieldID] = id
	current[FieldUpdatedAt] = s.timestamp()
	return s.put(ctx, coll, id, current)
}

// GetDoc returns the record or nil when it does not exist.
func (s *Store) GetDoc(ctx context.Context, coll Collection, id string) (Document, error) {
	if err := checkKey(coll, id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, coll, id)
}

// GetDocs returns every record in the collection.
func (s *Store) GetDocs(ctx context.Context, coll Collection) ([]Document, error) {
	if !coll.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCollection, coll)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(ctx, coll)
}

// QueryDocs returns the records whose field equals value. No match, including a
// field that no record carries, is an empty result.
func (s *Store) QueryDocs(ctx context.Context, coll Collection, field string, value any) ([]Document, error) {
	want, err := normalizeValue(value)
	if err != nil {
		return nil, fmt.Errorf("query %s.%s: %w", coll, field, err)
	}
	all, err := s.GetDocs(ctx, coll)
	if err != nil {
		return nil, err
	}

	out := make([]Document, 0)
	for _, d := range all {
		if fieldEquals(d, field, want) {
			out = append(out, d)
		}
	}
	return out, nil
}

// DeleteDoc removes one record; deleting a missing record is not an error.
func (s *Store) DeleteDoc(ctx context.Context, coll Collection, id string) error {
	if err := checkKey(coll, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.backend.Delete(ctx, coll, id)
	return err
}

func (s *Store) ClearCollection(ctx context.Context, coll Collection) error {
	if !coll.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, coll)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Clear(ctx, coll)
}

// ClearDatabase empties every collection.
func (s *Store) ClearDatabase(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, coll := range AllCollections {
		if err := s.backend.Clear(ctx, coll); err != nil {
			return fmt.Errorf("clear %s: %w", coll, err)
		}
	}
	s.log.Info("docstore cleared")
	return nil
}

// MutateFunc receives a private copy of the current record and returns the record
// to store together with whether anything changed.
type MutateFunc func(current Document) (next Document, changed bool, err error)

// Mutate runs a read-modify-write on one record with no other store call
// interleaving. It reports whether a write happened; a missing record yields
// ErrNotFound.
func (s *Store) Mutate(ctx context.Context, coll Collection, id string, fn MutateFunc) (bool, error) {
	if err := checkKey(coll, id); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.get(ctx, coll, id)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, fmt.Errorf("mutate %s/%s: %w", coll, id, ErrNotFound)
	}

	next, changed, err := fn(current)
	if err != nil || !changed {
		return false, err
	}
	doc, err := normalize(next)
	if err != nil {
		return false, fmt.Errorf("mutate %s/%s: %w", coll, id, err)
	}
	doc[FieldID] = id
	doc[FieldUpdatedAt] = s.timestamp()
	if err := s.put(ctx, coll, id, doc); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) get(ctx context.Context, coll Collection, id string) (Document, error) {
	body, err := s.backend.Get(ctx, coll, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s/%s: %w", coll, id, err)
	}
	return decode(body)
}

func (s *Store) list(ctx context.Context, coll Collection) ([]Document, error) {
	records, err := s.backend.List(ctx, coll)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", coll, err)
	}
	out := make([]Document, 0, len(records))
	for _, r := range records {
		d, err := decode(r.Body)
		if err != nil {
			s.log.Warn("skipping undecodable document",
				zap.String("collection", string(coll)),
				zap.String("id", r.ID),
				zap.Error(err))
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) put(ctx context.Context, coll Collection, id string, doc Document) error {
	body, err := encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", coll, id, err)
	}
	if err := s.backend.Put(ctx, coll, id, body); err != nil {
		return fmt.Errorf("put %s/%s: %w", coll, id, err)
	}
	return nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func checkKey(coll Collection, id string) error {
	if !coll.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, coll)
	}
	if id == "" {
		return ErrInvalidID
	}
	return nil
}
