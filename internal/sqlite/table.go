package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/faktor/internal/ipsxml"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

// table implements types.Table for one entity kind.
type table struct {
	name    string
	backend *Backend
}

func newTable(b *Backend, name string) *table {
	return &table{name: name, backend: b}
}

// Get retrieves an entity by qualified name.
// Returns ErrInvalidID if name is empty, ErrNotFound if not found.
func (t *table) Get(name string) (any, error) {
	if name == "" {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return nil, types.ErrRepositoryDetached
	}
	switch t.name {
	case types.TableTypes:
		return t.getType(name)
	case types.TableProductCmpts:
		return t.getProductCmpt(name)
	default:
		return nil, types.ErrTableNotFound
	}
}

// Set creates or updates an entity. An empty name takes the entity's
// qualified name; a different non-empty name is rejected.
func (t *table) Set(name string, data any) (string, error) {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return "", types.ErrRepositoryDetached
	}
	switch t.name {
	case types.TableTypes:
		return t.setType(name, data)
	case types.TableProductCmpts:
		return t.setProductCmpt(name, data)
	default:
		return "", types.ErrTableNotFound
	}
}

// Delete removes an entity by qualified name.
// Returns ErrInvalidID if name is empty, ErrNotFound if not found.
func (t *table) Delete(name string) error {
	if name == "" {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrRepositoryDetached
	}
	switch t.name {
	case types.TableTypes:
		return t.deleteType(name)
	case types.TableProductCmpts:
		return t.deleteProductCmpt(name)
	default:
		return types.ErrTableNotFound
	}
}

// Fetch returns entities matching the filter, ordered by name. An empty
// filter matches all.
func (t *table) Fetch(filter types.Filter) ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return nil, types.ErrRepositoryDetached
	}
	switch t.name {
	case types.TableTypes:
		return t.fetchTypes(filter)
	case types.TableProductCmpts:
		return t.fetchProductCmpts(filter)
	default:
		return nil, types.ErrTableNotFound
	}
}

// entityName resolves the name Set stores an entity under.
func entityName(name, qualifiedName string) (string, error) {
	switch {
	case qualifiedName == "" && name == "":
		return "", types.ErrInvalidID
	case name == "":
		return qualifiedName, nil
	case qualifiedName != "" && name != qualifiedName:
		return "", fmt.Errorf("%w: %q does not match %q", types.ErrInvalidID, name, qualifiedName)
	}
	return name, nil
}

// Product component type operations.

func (t *table) getType(name string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT definition FROM product_cmpt_types WHERE qualified_name = ?", name)
	var def string
	if err := row.Scan(&def); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: type %s", types.ErrNotFound, name)
		}
		return nil, fmt.Errorf("getting type %s: %w", name, err)
	}
	return decodeType(def)
}

func decodeType(def string) (*types.ProductCmptType, error) {
	var pt types.ProductCmptType
	if err := json.Unmarshal([]byte(def), &pt); err != nil {
		return nil, fmt.Errorf("decoding type: %w", err)
	}
	return &pt, nil
}

func (t *table) setType(name string, data any) (string, error) {
	pt, ok := data.(*types.ProductCmptType)
	if !ok || pt == nil {
		return "", types.ErrInvalidData
	}
	name, err := entityName(name, pt.QualifiedName)
	if err != nil {
		return "", err
	}
	pt.QualifiedName = name
	tj, err := typeRecord(pt)
	if err != nil {
		return "", err
	}
	if err := insertType(t.backend.db, tj); err != nil {
		return "", fmt.Errorf("saving type %s: %w", name, err)
	}
	return name, t.backend.persist(t.name)
}

func (t *table) deleteType(name string) error {
	res, err := t.backend.db.Exec("DELETE FROM product_cmpt_types WHERE qualified_name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting type %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: type %s", types.ErrNotFound, name)
	}
	return t.backend.persist(t.name)
}

func (t *table) fetchTypes(filter types.Filter) ([]any, error) {
	query := "SELECT definition FROM product_cmpt_types"
	var conditions []string
	var args []any

	for key, val := range filter {
		switch key {
		case "supertype":
			s, ok := val.(string)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, "supertype = ?")
			args = append(args, s)
		case "changing_over_time":
			b, ok := val.(bool)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, "changing_over_time = ?")
			args = append(args, b)
		default:
			return nil, fmt.Errorf("%w: unknown key %q", types.ErrInvalidFilter, key)
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY qualified_name"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching types: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		var def string
		if err := rows.Scan(&def); err != nil {
			return nil, fmt.Errorf("scanning type: %w", err)
		}
		pt, err := decodeType(def)
		if err != nil {
			return nil, err
		}
		results = append(results, pt)
	}
	return results, rows.Err()
}

// Product component operations.

func (t *table) getProductCmpt(name string) (any, error) {
	row := t.backend.db.QueryRow("SELECT name, content FROM product_cmpts WHERE name = ?", name)
	pc, err := scanProductCmpt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product component %s", types.ErrNotFound, name)
	}
	return pc, err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProductCmpt(s rowScanner) (*types.ProductCmpt, error) {
	var name, content string
	if err := s.Scan(&name, &content); err != nil {
		return nil, err
	}
	pc, err := ipsxml.Unmarshal([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("decoding component %s: %w", name, err)
	}
	pc.QualifiedName = name
	return pc, nil
}

func (t *table) setProductCmpt(name string, data any) (string, error) {
	pc, ok := data.(*types.ProductCmpt)
	if !ok || pc == nil {
		return "", types.ErrInvalidData
	}
	name, err := entityName(name, pc.QualifiedName)
	if err != nil {
		return "", err
	}
	pc.QualifiedName = name
	cj, err := productCmptRecord(pc)
	if err != nil {
		return "", err
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()
	if err := insertProductCmpt(tx, cj, pc); err != nil {
		return "", fmt.Errorf("saving component %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing component %s: %w", name, err)
	}
	return name, t.backend.persist(t.name)
}

func (t *table) deleteProductCmpt(name string) error {
	tx, err := t.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearIndex(tx, name); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM product_cmpts WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting component %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product component %s", types.ErrNotFound, name)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete of %s: %w", name, err)
	}
	return t.backend.persist(t.name)
}

func (t *table) fetchProductCmpts(filter types.Filter) ([]any, error) {
	query := "SELECT name, content FROM product_cmpts"
	var conditions []string
	var args []any

	for key, val := range filter {
		switch key {
		case "type_name", "template":
			s, ok := val.(string)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, key+" = ?")
			args = append(args, s)
		case "is_template":
			b, ok := val.(bool)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, "is_template = ?")
			args = append(args, b)
		case "limit":
		default:
			return nil, fmt.Errorf("%w: unknown key %q", types.ErrInvalidFilter, key)
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	if limit, ok := filter["limit"]; ok {
		l, ok := toInt(limit)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if l > 0 {
			query += fmt.Sprintf(" LIMIT %d", l)
		}
	}

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching components: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		pc, err := scanProductCmpt(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, pc)
	}
	return results, rows.Err()
}

// persistJSONL rewrites the table's data file from SQLite.
func (t *table) persistJSONL() error {
	var (
		records []json.RawMessage
		file    string
		err     error
	)
	switch t.name {
	case types.TableTypes:
		file = typesJSONL
		records, err = t.typeRecords()
	case types.TableProductCmpts:
		file = productCmptsJSONL
		records, err = t.productCmptRecords()
	default:
		return types.ErrTableNotFound
	}
	if err != nil {
		return err
	}
	return writeJSONL(filepath.Join(t.backend.dataDir, file), records)
}

func (t *table) typeRecords() ([]json.RawMessage, error) {
	rows, err := t.backend.db.Query(
		"SELECT qualified_name, supertype, changing_over_time, definition FROM product_cmpt_types ORDER BY qualified_name")
	if err != nil {
		return nil, fmt.Errorf("reading types for JSONL: %w", err)
	}
	defer rows.Close()

	var recs []typeJSON
	for rows.Next() {
		var tj typeJSON
		if err := rows.Scan(&tj.QualifiedName, &tj.Supertype, &tj.ChangingOverTime, &tj.Definition); err != nil {
			return nil, fmt.Errorf("scanning type for JSONL: %w", err)
		}
		recs = append(recs, tj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return marshalRecords(recs)
}

func (t *table) productCmptRecords() ([]json.RawMessage, error) {
	rows, err := t.backend.db.Query(
		"SELECT name, type_name, template, is_template, content FROM product_cmpts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("reading components for JSONL: %w", err)
	}
	defer rows.Close()

	var recs []productCmptJSON
	for rows.Next() {
		var cj productCmptJSON
		if err := rows.Scan(&cj.Name, &cj.TypeName, &cj.Template, &cj.IsTemplate, &cj.Content); err != nil {
			return nil, fmt.Errorf("scanning component for JSONL: %w", err)
		}
		recs = append(recs, cj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return marshalRecords(recs)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
