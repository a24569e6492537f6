// Package sqlite provides the public factory for the SQLite repository
// backend while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/faktor/internal/sqlite"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

// NewBackend creates a new SQLite repository.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	repo := sqlite.NewBackend()
//	err := repo.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".faktor-db",
//	})
//	defer repo.Detach()
//	project, err := repo.LoadProject()
func NewBackend() types.Repository {
	return sqlite.NewBackend()
}
