package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store is the invocation ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the ledger at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends entry to the ledger.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	argv := entry.Argv
	if argv == nil {
		argv = []string{}
	}
	argvJSON, err := json.Marshal(argv)
	if err != nil {
		return fmt.Errorf("marshal argv: %w", err)
	}
	started := entry.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	return retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO invocations (
                invocation, node, started_at, duration_ms, argv_json,
                input_shape, status, error_kind, exit_code, message
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID,
			entry.Node,
			started.UTC().Format(time.RFC3339Nano),
			entry.Duration.Milliseconds(),
			string(argvJSON),
			nullableString(formatShape(entry.InputShape)),
			string(entry.Status),
			nullableString(entry.ErrorKind),
			entry.ExitCode,
			nullableString(entry.Message),
		)
		if execErr != nil {
			return fmt.Errorf("insert invocation: %w", execErr)
		}
		return nil
	})
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, invocation, node, started_at, duration_ms, argv_json,
        input_shape, status, error_kind, exit_code, message
        FROM invocations ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invocations: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry      Entry
		started    string
		durationMS int64
		argvJSON   string
		shape      sql.NullString
		status     string
		errorKind  sql.NullString
		message    sql.NullString
	)
	if err := rows.Scan(&entry.Seq, &entry.ID, &entry.Node, &started, &durationMS, &argvJSON,
		&shape, &status, &errorKind, &entry.ExitCode, &message); err != nil {
		return Entry{}, fmt.Errorf("scan invocation: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
		entry.StartedAt = t
	}
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	if err := json.Unmarshal([]byte(argvJSON), &entry.Argv); err != nil {
		return Entry{}, fmt.Errorf("decode argv for %d: %w", entry.Seq, err)
	}
	entry.InputShape = parseShape(shape.String)
	entry.Status = Status(status)
	entry.ErrorKind = errorKind.String
	entry.Message = message.String
	return entry, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
