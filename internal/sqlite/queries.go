package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

// ValueRef locates one property value in the index.
type ValueRef struct {
	Cmpt         string
	Container    string
	PropertyName string
	ValueType    types.PropertyValueType
	Status       types.TemplateValueStatus
}

// LinkRef locates one link in the index.
type LinkRef struct {
	Cmpt        string
	Container   string
	Association string
	Target      string
	Status      types.TemplateValueStatus
}

// TemplateUsages returns the names of the components that reference tmpl
// as their template, directly or through other templates, ordered by
// name.
func (b *Backend) TemplateUsages(tmpl string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRepositoryDetached
	}
	// UNION rather than UNION ALL stops the walk on template cycles.
	rows, err := b.db.Query(`
		WITH RECURSIVE usages(name) AS (
			SELECT name FROM product_cmpts WHERE template = ?
			UNION
			SELECT c.name FROM product_cmpts c JOIN usages u ON c.template = u.name
		)
		SELECT name FROM usages WHERE name <> ? ORDER BY name`, tmpl, tmpl)
	if err != nil {
		return nil, fmt.Errorf("querying usages of %s: %w", tmpl, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning usage: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ValuesWithStatus returns every indexed property value with the given
// status, ordered by component, container and property.
func (b *Backend) ValuesWithStatus(status types.TemplateValueStatus) ([]ValueRef, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRepositoryDetached
	}
	rows, err := b.db.Query(`
		SELECT cmpt, container, property_name, value_type, status FROM property_values
		WHERE status = ? ORDER BY cmpt, container, property_name, value_type`, status.String())
	if err != nil {
		return nil, fmt.Errorf("querying values: %w", err)
	}
	defer rows.Close()

	out := []ValueRef{}
	for rows.Next() {
		var r ValueRef
		var vt, st string
		if err := rows.Scan(&r.Cmpt, &r.Container, &r.PropertyName, &vt, &st); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		r.ValueType = types.PropertyValueType(vt)
		r.Status = types.ParseTemplateValueStatus(st)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LinksTo returns the links targeting the named component, ordered by
// source component and container.
func (b *Backend) LinksTo(target string) ([]LinkRef, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRepositoryDetached
	}
	rows, err := b.db.Query(`
		SELECT cmpt, container, association, target, status FROM links
		WHERE target = ? ORDER BY cmpt, container, association`, target)
	if err != nil {
		return nil, fmt.Errorf("querying links to %s: %w", target, err)
	}
	defer rows.Close()

	out := []LinkRef{}
	for rows.Next() {
		var r LinkRef
		var st string
		if err := rows.Scan(&r.Cmpt, &r.Container, &r.Association, &r.Target, &st); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		r.Status = types.ParseTemplateValueStatus(st)
		out = append(out, r)
	}
	return out, rows.Err()
}
