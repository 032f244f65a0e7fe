package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"
)

const SnapshotVersion = 1

// Snapshot is the portable export of the whole database.
type Snapshot struct {
	Version     int                                `json:"version"`
	ExportedAt  time.Time                          `json:"exportedAt"`
	Collections map[Collection]map[string]Document `json:"collections"`
}

// ExportDatabase captures every collection, including empty ones.
func (s *Store) ExportDatabase(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Version:     SnapshotVersion,
		ExportedAt:  s.now().UTC(),
		Collections: make(map[Collection]map[string]Document, len(AllCollections)),
	}
	for _, coll := range AllCollections {
		docs, err := s.list(ctx, coll)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]Document, len(docs))
		for _, d := range docs {
			byID[d.ID()] = d
		}
		snap.Collections[coll] = byID
	}
	return snap, nil
}

// ImportDatabase replaces each collection present in snap with its contents.
// Collections absent from snap are left alone. The whole snapshot is checked
// before anything is written, and a failed write leaves the previous contents.
func (s *Store) ImportDatabase(ctx context.Context, snap *Snapshot) error {
	sets, total, err := prepareImport(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.backend.(Replacer); ok {
		if err := r.Replace(ctx, sets); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	} else if err := s.replaceOneByOne(ctx, sets); err != nil {
		return err
	}

	s.log.Info("docstore imported",
		zap.Int("collections", len(sets)),
		zap.Int("documents", total))
	return nil
}

func prepareImport(snap *Snapshot) (map[Collection][]Record, int, error) {
	if snap == nil || snap.Collections == nil {
		return nil, 0, ErrInvalidSnapshot
	}

	sets := make(map[Collection][]Record, len(snap.Collections))
	total := 0
	for coll, docs := range snap.Collections {
		if !coll.Valid() {
			return nil, 0, fmt.Errorf("%w: unknown collection %q", ErrInvalidSnapshot, coll)
		}
		records := make([]Record, 0, len(docs))
		for id, data := range docs {
			if id == "" {
				return nil, 0, fmt.Errorf("%w: empty id in %s", ErrInvalidSnapshot, coll)
			}
			doc, err := normalize(data)
			if err != nil {
				return nil, 0, fmt.Errorf("%w: %s/%s: %v", ErrInvalidSnapshot, coll, id, err)
			}
			if doc == nil {
				doc = Document{}
			}
			doc[FieldID] = id
			body, err := encode(doc)
			if err != nil {
				return nil, 0, fmt.Errorf("encode %s/%s: %w", coll, id, err)
			}
			records = append(records, Record{ID: id, Body: body})
		}
		sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
		sets[coll] = records
		total += len(records)
	}
	return sets, total, nil
}

// replaceOneByOne is the path for backends without transactions. It keeps the
// previous records and writes them back if any write fails.
func (s *Store) replaceOneByOne(ctx context.Context, sets map[Collection][]Record) error {
	previous := make(map[Collection][]Record, len(sets))
	for coll := range sets {
		records, err := s.backend.List(ctx, coll)
		if err != nil {
			return fmt.Errorf("list %s: %w", coll, err)
		}
		previous[coll] = records
	}

	if err := writeSets(ctx, s.backend, sets); err != nil {
		if rerr := writeSets(context.WithoutCancel(ctx), s.backend, previous); rerr != nil {
			s.log.Error("restoring collections after failed import", zap.Error(rerr))
			return errors.Join(err, fmt.Errorf("restore: %w", rerr))
		}
		return err
	}
	return nil
}

func writeSets(ctx context.Context, b Backend, sets map[Collection][]Record) error {
	for _, coll := range AllCollections {
		records, ok := sets[coll]
		if !ok {
			continue
		}
		if err := b.Clear(ctx, coll); err != nil {
			return fmt.Errorf("clear %s: %w", coll, err)
		}
		for _, r := range records {
			if err := b.Put(ctx, coll, r.ID, r.Body); err != nil {
				return fmt.Errorf("put %s/%s: %w", coll, r.ID, err)
			}
		}
	}
	return nil
}

func WriteSnapshot(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snap.Collections == nil {
		return nil, ErrInvalidSnapshot
	}
	return &snap, nil
}
