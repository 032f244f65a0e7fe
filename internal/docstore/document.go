package docstore

import (
	"encoding/json"
	"fmt"
)

// Document is one stored record.
type Document map[string]any

const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

const zeroTime = "0001-01-01T00:00:00Z"

// ID returns the record's id field, or "" when missing.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

func encode(d Document) ([]byte, error) {
	return json.Marshal(d)
}

func decode(body []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return d, nil
}

func normalize(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decode(b)
}

func normalizeValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// fieldEquals reports whether the record holds field with exactly want. Objects
// and arrays never compare equal, matching identity semantics of the clients
// that query by scalar fields only.
func fieldEquals(d Document, field string, want any) bool {
	got, ok := d[field]
	if !ok {
		return false
	}
	switch got.(type) {
	case map[string]any, []any:
		return false
	}
	switch want.(type) {
	case map[string]any, []any:
		return false
	}
	return got == want
}

func isMissingTime(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && (s == "" || s == zeroTime)
}
