// Package docstore is the collection-keyed document store every other package
// persists through. Records are schema-less JSON objects keyed by id; Store adds
// id generation, shallow merge updates, equality queries and whole-store
// snapshots on top of a Backend (SQL through gorm, or MongoDB).
//
// Each call completes its write before returning, so a write is visible to every
// later read in the process. There is no multi-document atomicity; Mutate is the
// only read-modify-write primitive and it covers a single record.
package docstore
