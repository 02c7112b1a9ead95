// Package history persists extraction passes in SQLite so the values a
// poller produced can be inspected after the fact.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/respvars/packages/capture"
	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no pass has been recorded yet.
var ErrNotFound = errors.New("no extraction pass recorded")

const schema = `
CREATE TABLE IF NOT EXISTS passes (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	recorded_at TIMESTAMP NOT NULL,
	request_id  TEXT,
	status_code INTEGER
);
CREATE TABLE IF NOT EXISTS pass_values (
	pass_id TEXT NOT NULL REFERENCES passes(id) ON DELETE CASCADE,
	name    TEXT NOT NULL,
	value   TEXT,
	PRIMARY KEY (pass_id, name)
);`

// Value is one variable of a recorded pass. Found is false when the
// pattern did not match; the value is then stored as NULL.
type Value struct {
	Name  string
	Value string
	Found bool
}

// Pass is one recorded extraction.
type Pass struct {
	ID         string
	RecordedAt time.Time
	RequestID  string
	StatusCode int
	Values     []Value
}

// Get returns the value recorded for name.
func (p *Pass) Get(name string) (string, bool) {
	for _, v := range p.Values {
		if v.Name == name {
			return v.Value, v.Found
		}
	}
	return "", false
}

// NewPass captures a snapshot of extracted values.
func NewPass(values *capture.Values, requestID string, statusCode int) Pass {
	p := Pass{
		ID:         uuid.NewString(),
		RecordedAt: time.Now().UTC(),
		RequestID:  requestID,
		StatusCode: statusCode,
	}
	values.Each(func(name, value string, found bool) {
		p.Values = append(p.Values, Value{Name: name, Value: value, Found: found})
	})
	return p
}

// Store is a SQLite-backed pass history.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens or creates the history database at path. Both plain paths and
// sqlite:// or sqlite: prefixed paths are accepted.
func Open(path string) (*Store, error) {
	dsn := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(path), "sqlite://"), "sqlite:")
	if dsn == "" {
		return nil, fmt.Errorf("history path is empty")
	}

	db, err := sql.Open("sqlite3", withPragma(dsn, "_foreign_keys=on"))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialise history database: %w", err)
	}

	return &Store{db: db, queryTimeout: 30 * time.Second}, nil
}

// withPragma appends a driver option to dsn, which may already carry a query.
func withPragma(dsn, option string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + option
	}
	return dsn + "?" + option
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a pass and its values atomically.
func (s *Store) Record(ctx context.Context, p Pass) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO passes (id, recorded_at, request_id, status_code) VALUES (?, ?, ?, ?)`,
		p.ID, p.RecordedAt, p.RequestID, p.StatusCode,
	); err != nil {
		return fmt.Errorf("insert pass: %w", err)
	}

	for _, v := range p.Values {
		var value sql.NullString
		if v.Found {
			value = sql.NullString{String: v.Value, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pass_values (pass_id, name, value) VALUES (?, ?, ?)`,
			p.ID, v.Name, value,
		); err != nil {
			return fmt.Errorf("insert value %s: %w", v.Name, err)
		}
	}

	return tx.Commit()
}

// Latest returns the most recently recorded pass.
func (s *Store) Latest(ctx context.Context) (*Pass, error) {
	passes, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(passes) == 0 {
		return nil, ErrNotFound
	}
	return &passes[0], nil
}

// List returns up to limit passes, newest first. A limit of zero or less
// returns every pass.
func (s *Store) List(ctx context.Context, limit int) ([]Pass, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := `SELECT id, recorded_at, COALESCE(request_id, ''), COALESCE(status_code, 0) FROM passes ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}

	var passes []Pass
	for rows.Next() {
		var p Pass
		if err := rows.Scan(&p.ID, &p.RecordedAt, &p.RequestID, &p.StatusCode); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pass: %w", err)
		}
		passes = append(passes, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for i := range passes {
		values, err := s.values(ctx, passes[i].ID)
		if err != nil {
			return nil, err
		}
		passes[i].Values = values
	}

	return passes, nil
}

func (s *Store) values(ctx context.Context, passID string) ([]Value, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value FROM pass_values WHERE pass_id = ? ORDER BY name`, passID)
	if err != nil {
		return nil, fmt.Errorf("query values: %w", err)
	}
	defer rows.Close()

	var values []Value
	for rows.Next() {
		var (
			name  string
			value sql.NullString
		)
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		values = append(values, Value{Name: name, Value: value.String, Found: value.Valid})
	}
	return values, rows.Err()
}
