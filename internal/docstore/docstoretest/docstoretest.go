// Package docstoretest provides a throwaway document store for tests.
package docstoretest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"homeclean/internal/database"
	"homeclean/internal/docstore"
	"homeclean/internal/pkg/idgen"
)

// New returns a Store over a private in-memory SQLite database that is closed
// when the test ends.
func New(t testing.TB) *docstore.Store {
	t.Helper()
	return docstore.New(Backend(t), idgen.New(), nil)
}

// Backend returns the SQLite backend New uses, for tests that wrap it.
func Backend(t testing.TB) *docstore.GormBackend {
	t.Helper()

	dsn := fmt.Sprintf("file:docstore_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect(dsn, nil)
	require.NoError(t, err)

	backend, err := docstore.NewGormBackend(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return backend
}
