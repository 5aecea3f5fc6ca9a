// Package sqlite persists invocation records across emulator restarts.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/storage"
)

// Store is a SQLite implementation of storage.Store.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// New opens or creates the database at dbPath and bootstraps the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS invocations (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			trigger_tag TEXT NOT NULL,
			remote_addr TEXT,
			payload TEXT,
			response TEXT,
			error TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_created ON invocations(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_trigger ON invocations(trigger_tag)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}
	return nil
}

func (s *Store) Save(ctx context.Context, rec *storage.InvocationRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `INSERT INTO invocations (id, created_at, trigger_tag, remote_addr, payload, response, error, duration_ms)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.CreatedAt, string(rec.Trigger), rec.RemoteAddr,
		string(rec.Payload), string(rec.Response), rec.Error, rec.DurationMS)
	if err != nil {
		return fmt.Errorf("save invocation: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*storage.InvocationRecord, error) {
	query := `SELECT id, created_at, trigger_tag, remote_addr, payload, response, error, duration_ms
	          FROM invocations WHERE id = ?`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get invocation: %w", err)
	}
	return rec, nil
}

func (s *Store) List(ctx context.Context, opts storage.ListOptions) ([]*storage.InvocationRecord, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = 100
	}

	query := `SELECT id, created_at, trigger_tag, remote_addr, payload, response, error, duration_ms
	          FROM invocations`
	args := []any{}
	if opts.Trigger != "" {
		query += ` WHERE trigger_tag = ?`
		args = append(args, string(opts.Trigger))
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var recs []*storage.InvocationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*storage.InvocationRecord, error) {
	var rec storage.InvocationRecord
	var tag string
	var remoteAddr, payload, response, errText sql.NullString

	err := row.Scan(&rec.ID, &rec.CreatedAt, &tag, &remoteAddr,
		&payload, &response, &errText, &rec.DurationMS)
	if err != nil {
		return nil, err
	}

	rec.Trigger = domain.Trigger(tag)
	rec.RemoteAddr = remoteAddr.String
	if payload.Valid && payload.String != "" {
		rec.Payload = []byte(payload.String)
	}
	if response.Valid && response.String != "" {
		rec.Response = []byte(response.String)
	}
	rec.Error = errText.String
	return &rec, nil
}
