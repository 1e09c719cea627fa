package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// createTableSQL holds one row per run. seq orders rows by insertion, which
// stays stable for runs recorded within the same clock tick.
const createTableSQL = `CREATE TABLE IF NOT EXISTS runs (
    seq               INTEGER PRIMARY KEY AUTOINCREMENT,
    id                TEXT NOT NULL UNIQUE,
    tool              TEXT NOT NULL,
    model             TEXT NOT NULL DEFAULT '',
    input             TEXT,
    has_image         INTEGER NOT NULL DEFAULT 0,
    output            TEXT,
    error             TEXT NOT NULL DEFAULT '',
    attempts          INTEGER NOT NULL DEFAULT 0,
    prompt_tokens     INTEGER NOT NULL DEFAULT 0,
    completion_tokens INTEGER NOT NULL DEFAULT 0,
    total_tokens      INTEGER NOT NULL DEFAULT 0,
    reasoning_tokens  INTEGER NOT NULL DEFAULT 0,
    cached_tokens     INTEGER NOT NULL DEFAULT 0,
    cost_usd          REAL NOT NULL DEFAULT 0,
    duration_ms       INTEGER NOT NULL DEFAULT 0,
    created_at        INTEGER NOT NULL
)`

const createToolIndexSQL = `CREATE INDEX IF NOT EXISTS idx_runs_tool_seq ON runs (tool, seq)`

const selectColumns = `id, tool, model, input, has_image, output, error, attempts,
    prompt_tokens, completion_tokens, total_tokens, reasoning_tokens, cached_tokens,
    cost_usd, duration_ms, created_at`

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	// SQLite serialises writers; one connection also keeps ":memory:" a
	// single database.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{createTableSQL, createToolIndexSQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: create schema: %w", err)
		}
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(ctx context.Context, r *Record) error {
	if r == nil {
		return fmt.Errorf("history: nil record")
	}
	prepare(r)

	var input sql.NullString
	if len(r.Input) > 0 {
		encoded, err := json.Marshal(r.Input)
		if err != nil {
			return fmt.Errorf("history: encode input: %w", err)
		}
		input = sql.NullString{String: string(encoded), Valid: true}
	}
	var output sql.NullString
	if len(r.Output) > 0 {
		output = sql.NullString{String: string(r.Output), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO runs (
        id, tool, model, input, has_image, output, error, attempts,
        prompt_tokens, completion_tokens, total_tokens, reasoning_tokens, cached_tokens,
        cost_usd, duration_ms, created_at
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Tool, r.Model, input, r.HasImage, output, r.Error, r.Attempts,
		r.Usage.PromptTokens, r.Usage.CompletionTokens, r.Usage.TotalTokens, r.Usage.ReasoningTokens, r.Usage.CachedTokens,
		r.CostUSD, r.Duration.Milliseconds(), r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM runs WHERE id = ?`, id)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *SQLite) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	query := `SELECT ` + selectColumns + ` FROM runs`
	args := []any{}
	if opts.Tool != "" {
		query += ` WHERE tool = ? COLLATE NOCASE`
		args = append(args, opts.Tool)
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, opts.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	return out, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		r          Record
		input      sql.NullString
		output     sql.NullString
		durationMs int64
		createdAt  int64
	)

	err := row.Scan(
		&r.ID, &r.Tool, &r.Model, &input, &r.HasImage, &output, &r.Error, &r.Attempts,
		&r.Usage.PromptTokens, &r.Usage.CompletionTokens, &r.Usage.TotalTokens, &r.Usage.ReasoningTokens, &r.Usage.CachedTokens,
		&r.CostUSD, &durationMs, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("history: scan run: %w", err)
	}

	if input.Valid {
		if err := json.Unmarshal([]byte(input.String), &r.Input); err != nil {
			return nil, fmt.Errorf("history: decode input of %s: %w", r.ID, err)
		}
	}
	if output.Valid {
		r.Output = json.RawMessage(output.String)
	}
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.CreatedAt = time.Unix(0, createdAt).UTC()

	return &r, nil
}
