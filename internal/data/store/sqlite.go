// Package store persists the resolved entity set of a run to sqlite. The
// pipeline only calls SaveRun when the integration report carries no errors.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"classlink/internal/core/ports"
	"classlink/internal/engine/registry"
)

const sqliteDriverName = "sqlite"

var _ ports.SpecStore = (*SQLiteStore)(nil)

type SQLiteStore struct {
	db *sql.DB
}

func Open(path string) (*SQLiteStore, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("spec store path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("spec store path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create spec store directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open spec store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(4)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping spec store %q: %w", cleanPath, err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  run_id     TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  files      INTEGER NOT NULL,
  classes    INTEGER NOT NULL,
  errors     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS class_specs (
  run_id      TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
  fqn         TEXT NOT NULL,
  package     TEXT NOT NULL,
  name        TEXT NOT NULL,
  spec_type   TEXT NOT NULL,
  stereotype  TEXT NOT NULL DEFAULT '',
  source_file TEXT NOT NULL,
  source_line INTEGER NOT NULL,
  payload     TEXT NOT NULL,
  PRIMARY KEY (run_id, fqn)
);
CREATE INDEX IF NOT EXISTS idx_class_specs_package ON class_specs(run_id, package);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate spec store schema: %w", err)
	}
	return nil
}

// SaveRun writes the run header and every spec in a single transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run ports.RunRecord, specs []*registry.ClassSpec) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, files, classes, errors) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format("2006-01-02T15:04:05Z"), run.Files, run.Classes, run.Errors,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO class_specs
  (run_id, fqn, package, name, spec_type, stereotype, source_file, source_line, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare spec insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, spec := range specs {
		payload, err := json.Marshal(spec)
		if err != nil {
			return fmt.Errorf("marshal spec %s: %w", spec.FQN, err)
		}
		if _, err := stmt.ExecContext(ctx,
			run.ID, spec.FQN, spec.Package, spec.Name, string(spec.SpecType),
			spec.Stereotype, spec.SpecFile, spec.SpecLine, string(payload),
		); err != nil {
			return fmt.Errorf("insert spec %s: %w", spec.FQN, err)
		}
	}

	return tx.Commit()
}

// ListRunSpecs loads every spec persisted for a run, in fqn order.
func (s *SQLiteStore) ListRunSpecs(ctx context.Context, runID string) ([]*registry.ClassSpec, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM class_specs WHERE run_id = ? ORDER BY fqn`, runID)
	if err != nil {
		return nil, fmt.Errorf("query specs for run %s: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	var specs []*registry.ClassSpec
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan spec row: %w", err)
		}
		var spec registry.ClassSpec
		if err := json.Unmarshal([]byte(payload), &spec); err != nil {
			return nil, fmt.Errorf("decode spec payload: %w", err)
		}
		specs = append(specs, &spec)
	}
	return specs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
