package types

import "errors"

// Table provides uniform CRUD operations for a single entity kind.
// Get and Fetch return any; callers type-assert to *ProductCmptType or
// *ProductCmpt.
type Table interface {
	// Get retrieves the entity with the given qualified name.
	// Returns ErrNotFound if no entity exists with that name.
	Get(name string) (any, error)

	// Set creates or updates an entity. An empty name takes the entity's
	// own qualified name. Returns the name used.
	Set(name string, data any) (string, error)

	// Delete removes the entity with the given name.
	// Returns ErrNotFound if no entity exists with that name.
	Delete(name string) error

	// Fetch returns all entities matching the filter. An empty filter
	// returns every entity in the table.
	Fetch(filter Filter) ([]any, error)
}

// Filter selects entities in Table.Fetch. Keys are column names.
type Filter map[string]any

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity name")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidFilter = errors.New("invalid filter value type")
)

// Entity method errors.
var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrNoTemplate   = errors.New("container has no template")
)
