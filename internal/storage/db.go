package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/runger/grimoire/internal/frecency"
)

// SQLiteStore keeps frecency entries in a SQLite table, one row per item.
type SQLiteStore struct {
	db        *sql.DB
	path      string
	closeOnce sync.Once
	closeErr  error
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// brings its schema up to date.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// DB returns the underlying connection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Load reads every row into a map.
func (s *SQLiteStore) Load(ctx context.Context) (frecency.Map, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, count, last FROM frecency`)
	if err != nil {
		return frecency.Map{}, fmt.Errorf("query frecency: %w", err)
	}
	defer rows.Close()

	m := frecency.Map{}
	for rows.Next() {
		var (
			id    string
			count int64
			last  int64
		)
		if err := rows.Scan(&id, &count, &last); err != nil {
			return frecency.Map{}, fmt.Errorf("scan frecency row: %w", err)
		}
		if count < 0 {
			count = 0
		}
		m[id] = frecency.Entry{Count: uint32(min(count, int64(^uint32(0)))), Last: last}
	}
	if err := rows.Err(); err != nil {
		return frecency.Map{}, fmt.Errorf("iterate frecency rows: %w", err)
	}
	return m, nil
}

// Save replaces all rows with m in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, m frecency.Map) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM frecency`); err != nil {
		return fmt.Errorf("clear frecency: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO frecency (id, count, last) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, e := range m {
		if _, err = stmt.ExecContext(ctx, id, int64(e.Count), e.Last); err != nil {
			return fmt.Errorf("insert %q: %w", id, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close checkpoints the WAL and closes the database. It is safe to call
// more than once.
func (s *SQLiteStore) Close() error {
	s.closeOnce.Do(func() {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	current := 0
	row := s.db.QueryRowContext(ctx, `SELECT version FROM schema_meta ORDER BY version DESC LIMIT 1`)
	if err := row.Scan(&current); err != nil {
		if !errors.Is(err, sql.ErrNoRows) && !isTableNotFoundError(err) {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		current = 0
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{version: 1, sql: migrationV1},
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.version, err)
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO schema_meta (version, applied_at_unix_ms) VALUES (?, ?)`,
			m.version, time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}
	}
	return nil
}

func isTableNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
  version INTEGER PRIMARY KEY,
  applied_at_unix_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS frecency (
  id    TEXT PRIMARY KEY,
  count INTEGER NOT NULL DEFAULT 0,
  last  INTEGER NOT NULL DEFAULT 0
);
`
