package types

import "errors"

// Standard table names for Repository.GetTable.
const (
	TableTypes        = "types"
	TableProductCmpts = "product_cmpts"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TableTypes,
	TableProductCmpts,
}

// Repository defines backend-agnostic storage of a model. Callers attach
// to a backend, access tables by name, and detach when done.
type Repository interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// LoadProject reads every type and product component into a Project.
	LoadProject() (*Project, error)

	// Attach connects the Repository to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, operations on tables return ErrRepositoryDetached.
	Detach() error
}

// Repository lifecycle errors.
var (
	ErrRepositoryDetached = errors.New("repository is detached")
	ErrAlreadyAttached    = errors.New("repository is already attached")
	ErrTableNotFound      = errors.New("table not found")
)
