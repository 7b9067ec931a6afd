package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"eightd/internal/report"
)

// Dialect selects SQL placeholder syntax.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// SQLStore persists sessions as JSON documents. Reads go through an LRU of
// encoded payloads, so every Get decodes a private copy.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	cache   *lru.Cache[string, []byte]

	schemaOnce sync.Once
	schemaErr  error
}

// OpenSQLite opens or creates the database file at path.
func OpenSQLite(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time keeps SQLite free of "database is locked".
	db.SetMaxOpenConns(1)
	return newSQLStore(db, DialectSQLite)
}

// OpenPostgres connects with the pgx stdlib driver.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	return newSQLStore(db, DialectPostgres)
}

func newSQLStore(db *sql.DB, d Dialect) (*SQLStore, error) {
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, []byte](256)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s := &SQLStore{db: db, dialect: d, cache: cache}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS report_sessions (
  id TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  updated_at BIGINT NOT NULL
)`)
	})
	return s.schemaErr
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	raw, ok := s.cache.Get(id)
	if !ok {
		var payload string
		err := s.db.QueryRowContext(ctx,
			`SELECT payload FROM report_sessions WHERE id = `+s.dialect.placeholder(1), id).Scan(&payload)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", id, err)
		}
		raw = []byte(payload)
		s.cache.Add(id, raw)
	}
	var out Session
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if out.Report == nil {
		out.Report = report.New()
	}
	out.Report.Normalize()
	return &out, nil
}

func (s *SQLStore) Put(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	p := s.dialect.placeholder
	_, err = s.db.ExecContext(ctx, `
INSERT INTO report_sessions (id, payload, updated_at)
VALUES (`+p(1)+`, `+p(2)+`, `+p(3)+`)
ON CONFLICT (id)
DO UPDATE SET payload=EXCLUDED.payload, updated_at=EXCLUDED.updated_at`,
		sess.ID, string(raw), sess.UpdatedAt.UnixMilli())
	if err != nil {
		s.cache.Remove(sess.ID)
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	s.cache.Add(sess.ID, raw)
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	s.cache.Remove(id)
	res, err := s.db.ExecContext(ctx, `DELETE FROM report_sessions WHERE id = `+s.dialect.placeholder(1), id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }
