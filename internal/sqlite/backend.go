// Package sqlite implements the repository backend for faktor models.
// JSONL files in the data directory are the source of truth; SQLite is a
// query engine rebuilt from them on every Attach.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/faktor/internal/ipsxml"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

// dbFileName is the SQLite file created in the data directory.
const dbFileName = "faktor.db"

// Backend implements types.Repository.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
	tables   map[string]*table
	log      hclog.Logger

	syncStrategy  string
	pendingWrites []pendingWrite
	pendingMu     sync.Mutex
}

// pendingWrite is a deferred JSONL write queued by the on_close strategy.
type pendingWrite struct {
	tableName string
	persist   func() error
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]*table),
		log:    hclog.L().Named("sqlite"),
	}
}

// GetTable returns the table with the given name.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRepositoryDetached
	}
	t, ok := b.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, name)
	}
	return t, nil
}

// Attach creates DataDir if needed, recreates the SQLite schema and loads
// the JSONL files.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	// The database is derived state; start fresh.
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps PRAGMA foreign_keys in effect for every query.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}
	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dataDir, b.log); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.syncStrategy = config.EffectiveSyncStrategy()
	b.pendingWrites = nil
	b.attached = true

	for _, name := range types.StandardTableNames {
		b.tables[name] = newTable(b, name)
	}
	b.log.Debug("attached", "data_dir", dataDir, "sync_strategy", b.syncStrategy)
	return nil
}

func createSchema(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// Detach flushes pending writes and closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.flushPendingWrites(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.tables = make(map[string]*table)
	b.log.Debug("detached", "data_dir", b.dataDir)
	return nil
}

// LoadProject reads every type and product component into a new project,
// types first, each table in name order.
func (b *Backend) LoadProject() (*types.Project, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRepositoryDetached
	}
	p := types.NewProject()

	ts, err := b.tables[types.TableTypes].fetchTypes(types.Filter{})
	if err != nil {
		return nil, err
	}
	for _, t := range ts {
		p.AddType(t.(*types.ProductCmptType))
	}
	cs, err := b.tables[types.TableProductCmpts].fetchProductCmpts(types.Filter{})
	if err != nil {
		return nil, err
	}
	for _, c := range cs {
		p.AddProductCmpt(c.(*types.ProductCmpt))
	}
	return p, nil
}

// SaveProject writes every type and component of p, replacing entities
// with the same names.
func (b *Backend) SaveProject(p *types.Project) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrRepositoryDetached
	}
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range p.Types() {
		tj, err := typeRecord(t)
		if err != nil {
			return err
		}
		if err := insertType(tx, tj); err != nil {
			return fmt.Errorf("saving type %s: %w", t.QualifiedName, err)
		}
	}
	for _, pc := range p.ProductCmpts() {
		cj, err := productCmptRecord(pc)
		if err != nil {
			return err
		}
		if err := insertProductCmpt(tx, cj, pc); err != nil {
			return fmt.Errorf("saving component %s: %w", pc.QualifiedName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	if err := b.persist(types.TableTypes); err != nil {
		return err
	}
	return b.persist(types.TableProductCmpts)
}

// persist writes the JSONL file of the named table now, or queues the
// write for Detach under the on_close strategy. The caller holds b.mu.
func (b *Backend) persist(tableName string) error {
	t := b.tables[tableName]
	if b.syncStrategy == types.SyncImmediate {
		return t.persistJSONL()
	}
	b.queueWrite(tableName, t.persistJSONL)
	return nil
}

// queueWrite adds a write for tableName unless one is already queued.
func (b *Backend) queueWrite(tableName string, persist func() error) {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()

	for _, pw := range b.pendingWrites {
		if pw.tableName == tableName {
			return
		}
	}
	b.pendingWrites = append(b.pendingWrites, pendingWrite{tableName: tableName, persist: persist})
}

// flushPendingWrites executes and clears the queue. The caller holds b.mu.
func (b *Backend) flushPendingWrites() error {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()

	for _, pw := range b.pendingWrites {
		if err := pw.persist(); err != nil {
			return fmt.Errorf("flush %s: %w", pw.tableName, err)
		}
	}
	b.pendingWrites = nil
	return nil
}

// typeRecord converts t to its JSONL record.
func typeRecord(t *types.ProductCmptType) (typeJSON, error) {
	def, err := json.Marshal(t)
	if err != nil {
		return typeJSON{}, fmt.Errorf("encoding type %s: %w", t.QualifiedName, err)
	}
	return typeJSON{
		QualifiedName:    t.QualifiedName,
		Supertype:        t.Supertype,
		ChangingOverTime: t.ChangingOverTime,
		Definition:       string(def),
	}, nil
}

// productCmptRecord converts pc to its JSONL record.
func productCmptRecord(pc *types.ProductCmpt) (productCmptJSON, error) {
	content, err := ipsxml.Marshal(pc)
	if err != nil {
		return productCmptJSON{}, fmt.Errorf("encoding component %s: %w", pc.QualifiedName, err)
	}
	return productCmptJSON{
		Name:       pc.QualifiedName,
		TypeName:   pc.TypeName,
		Template:   pc.Template,
		IsTemplate: pc.IsTemplate,
		Content:    string(content),
	}, nil
}
