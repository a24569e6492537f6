package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/faktor/internal/ipsxml"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// loadAllJSONL reads the data files from dataDir into SQLite. Loading is
// transactional: all succeed or the database remains empty. Malformed
// lines and records that fail to decode are skipped with a warning.
// Unknown fields in records are ignored.
func loadAllJSONL(db *sql.DB, dataDir string, log hclog.Logger) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	typeRecs, err := readDataFile(dataDir, typesJSONL, log)
	if err != nil {
		return err
	}
	for _, rec := range typeRecs {
		var tj typeJSON
		if err := json.Unmarshal(rec, &tj); err != nil || tj.QualifiedName == "" {
			log.Warn("skipping type record", "file", typesJSONL, "error", err)
			continue
		}
		if err := insertType(tx, tj); err != nil {
			log.Warn("skipping type record", "name", tj.QualifiedName, "error", err)
		}
	}

	cmptRecs, err := readDataFile(dataDir, productCmptsJSONL, log)
	if err != nil {
		return err
	}
	for _, rec := range cmptRecs {
		var cj productCmptJSON
		if err := json.Unmarshal(rec, &cj); err != nil || cj.Name == "" {
			log.Warn("skipping component record", "file", productCmptsJSONL, "error", err)
			continue
		}
		pc, err := ipsxml.Unmarshal([]byte(cj.Content))
		if err != nil {
			log.Warn("skipping component record", "name", cj.Name, "error", err)
			continue
		}
		pc.QualifiedName = cj.Name
		if err := insertProductCmpt(tx, cj, pc); err != nil {
			log.Warn("skipping component record", "name", cj.Name, "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	log.Debug("loaded data files", "types", len(typeRecs), "product_cmpts", len(cmptRecs))
	return nil
}

func readDataFile(dataDir, name string, log hclog.Logger) ([]json.RawMessage, error) {
	recs, skipped, err := readJSONL(filepath.Join(dataDir, name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if skipped > 0 {
		log.Warn("skipped malformed lines", "file", name, "count", skipped)
	}
	return recs, nil
}

func insertType(ex execer, tj typeJSON) error {
	_, err := ex.Exec(
		`INSERT OR REPLACE INTO product_cmpt_types (qualified_name, supertype, changing_over_time, definition)
		 VALUES (?, ?, ?, ?)`,
		tj.QualifiedName, tj.Supertype, tj.ChangingOverTime, tj.Definition)
	return err
}

// insertProductCmpt writes the component row and rebuilds its index rows.
func insertProductCmpt(ex execer, cj productCmptJSON, pc *types.ProductCmpt) error {
	if _, err := ex.Exec(
		`INSERT OR REPLACE INTO product_cmpts (name, type_name, template, is_template, content)
		 VALUES (?, ?, ?, ?, ?)`,
		cj.Name, cj.TypeName, cj.Template, cj.IsTemplate, cj.Content); err != nil {
		return err
	}
	return indexProductCmpt(ex, pc)
}

// indexProductCmpt replaces the property_values and links rows of pc.
func indexProductCmpt(ex execer, pc *types.ProductCmpt) error {
	if err := clearIndex(ex, pc.QualifiedName); err != nil {
		return err
	}
	for _, c := range pc.Containers() {
		container := c.Name()
		for _, pv := range c.Values().All() {
			if _, err := ex.Exec(
				`INSERT INTO property_values (cmpt, container, property_name, value_type, status, id)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				pc.QualifiedName, container, pv.PropertyName, string(pv.ValueType), pv.Status.String(), pv.ID); err != nil {
				return fmt.Errorf("indexing value %s: %w", pv.PropertyName, err)
			}
		}
		for _, l := range c.Links() {
			if _, err := ex.Exec(
				`INSERT INTO links (cmpt, container, association, target, status) VALUES (?, ?, ?, ?, ?)`,
				pc.QualifiedName, container, l.Association, l.Target, l.Status.String()); err != nil {
				return fmt.Errorf("indexing link %s: %w", l.Key(), err)
			}
		}
	}
	return nil
}

func clearIndex(ex execer, name string) error {
	if _, err := ex.Exec("DELETE FROM property_values WHERE cmpt = ?", name); err != nil {
		return fmt.Errorf("clearing values of %s: %w", name, err)
	}
	if _, err := ex.Exec("DELETE FROM links WHERE cmpt = ?", name); err != nil {
		return fmt.Errorf("clearing links of %s: %w", name, err)
	}
	return nil
}
