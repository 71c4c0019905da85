// Package index persists workspace symbols to sqlite so name lookups
// survive restarts. Rows hold display data derived from a crate analysis;
// classification itself always runs against the live semantic database.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"lodestar/internal/core/errors"
	"lodestar/internal/shared/observability"
)

const sqliteDriverName = "sqlite"

// SymbolRecord is one indexed symbol.
type SymbolRecord struct {
	Crate      string
	ModulePath string
	Name       string
	Kind       string
	Visibility string
	FilePath   string
	Line       uint32
	Column     uint32
}

// Store is a sqlite-backed symbol index keyed by workspace.
type Store struct {
	db           *sql.DB
	workspaceKey string
	lookupStmt   *sql.Stmt

	cacheMu     sync.RWMutex
	lookupCache map[string][]SymbolRecord
}

func Open(path, workspaceKey string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, errors.New(errors.CodeValidationError, "symbol index path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, errors.AddContext(errors.New(errors.CodeValidationError, "symbol index path is a directory"), errors.CtxPath, cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "create symbol index directory")
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "open symbol index")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.CodeInternal, "ping symbol index")
	}
	if err := migrateSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	key := strings.TrimSpace(workspaceKey)
	if key == "" {
		key = "default"
	}

	lookupStmt, err := db.Prepare(`SELECT
  crate,
  module_path,
  symbol_name,
  kind,
  visibility,
  file_path,
  line,
  col
FROM symbols
WHERE workspace_key = ? AND symbol_name = ?
ORDER BY crate, module_path, symbol_name`)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.CodeInternal, "prepare lookup stmt")
	}

	return &Store{
		db:           db,
		workspaceKey: key,
		lookupStmt:   lookupStmt,
		lookupCache:  make(map[string][]SymbolRecord),
	}, nil
}

func migrateSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS symbols (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  workspace_key TEXT    NOT NULL,
  crate         TEXT    NOT NULL,
  module_path   TEXT    NOT NULL DEFAULT '',
  symbol_name   TEXT    NOT NULL,
  kind          TEXT    NOT NULL,
  visibility    TEXT    NOT NULL DEFAULT '',
  file_path     TEXT    NOT NULL DEFAULT '',
  line          INTEGER NOT NULL DEFAULT 0,
  col           INTEGER NOT NULL DEFAULT 0,
  indexed_at    INTEGER NOT NULL DEFAULT (unixepoch())
);
CREATE INDEX IF NOT EXISTS idx_symbols_workspace_name
  ON symbols(workspace_key, symbol_name);
CREATE INDEX IF NOT EXISTS idx_symbols_workspace_crate
  ON symbols(workspace_key, crate);
`)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "ensure symbol schema")
	}
	return nil
}

// ReplaceCrate swaps out every row of one crate for the given records in a
// single transaction.
func (s *Store) ReplaceCrate(crate string, records []SymbolRecord) error {
	start := time.Now()
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "begin index sync")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM symbols WHERE workspace_key = ? AND crate = ?`,
		s.workspaceKey, crate,
	); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "prune crate rows"), errors.CtxCrate, crate)
	}

	insert, err := tx.Prepare(`INSERT INTO symbols
  (workspace_key, crate, module_path, symbol_name, kind, visibility, file_path, line, col)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "prepare insert stmt")
	}
	defer insert.Close()

	for _, rec := range records {
		if _, err := insert.Exec(
			s.workspaceKey, crate, rec.ModulePath, rec.Name, rec.Kind,
			rec.Visibility, rec.FilePath, rec.Line, rec.Column,
		); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "insert symbol"), errors.CtxSymbol, rec.Name)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "commit index sync")
	}

	s.cacheMu.Lock()
	s.lookupCache = make(map[string][]SymbolRecord)
	s.cacheMu.Unlock()

	observability.IndexSyncDuration.Observe(time.Since(start).Seconds())
	s.publishSize()
	return nil
}

// Lookup returns the indexed symbols with the given name.
func (s *Store) Lookup(name string) []SymbolRecord {
	observability.SymbolLookupsTotal.Inc()

	s.cacheMu.RLock()
	cached, ok := s.lookupCache[name]
	s.cacheMu.RUnlock()
	if ok {
		return cached
	}

	rows, err := s.lookupStmt.Query(s.workspaceKey, name)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var records []SymbolRecord
	for rows.Next() {
		var rec SymbolRecord
		if err := rows.Scan(
			&rec.Crate, &rec.ModulePath, &rec.Name, &rec.Kind,
			&rec.Visibility, &rec.FilePath, &rec.Line, &rec.Column,
		); err != nil {
			return nil
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil
	}

	s.cacheMu.Lock()
	s.lookupCache[name] = records
	s.cacheMu.Unlock()
	return records
}

// Count returns the number of rows in this workspace's index.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM symbols WHERE workspace_key = ?`, s.workspaceKey,
	).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "count symbols")
	}
	return n, nil
}

func (s *Store) publishSize() {
	if n, err := s.Count(); err == nil {
		observability.IndexedSymbols.Set(float64(n))
	}
}

func (s *Store) Close() error {
	if s.lookupStmt != nil {
		_ = s.lookupStmt.Close()
	}
	return s.db.Close()
}
