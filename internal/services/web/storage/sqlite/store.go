package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/signin/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/louisbranch/signin/internal/services/web/storage"
	"github.com/louisbranch/signin/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const defaultListLimit = 50

// Store provides SQLite-backed persistence for the sign-in audit trail.
type Store struct {
	sqlDB *sql.DB
}

var _ webstorage.LoginAttemptStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens and migrates an audit SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordLoginAttempt appends one attempt to the audit trail.
func (s *Store) RecordLoginAttempt(ctx context.Context, attempt webstorage.LoginAttempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if attempt.Method == "" {
		return fmt.Errorf("attempt method is required")
	}
	if attempt.Outcome == "" {
		return fmt.Errorf("attempt outcome is required")
	}
	occurredAt := attempt.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO login_attempts (
		   method, outcome, subject, user_id, reason, remote_ip, user_agent, request_id, occurred_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(attempt.Method),
		string(attempt.Outcome),
		strings.ToLower(strings.TrimSpace(attempt.Subject)),
		strings.TrimSpace(attempt.UserID),
		strings.TrimSpace(attempt.Reason),
		strings.TrimSpace(attempt.RemoteIP),
		strings.TrimSpace(attempt.UserAgent),
		strings.TrimSpace(attempt.RequestID),
		toMillis(occurredAt),
	)
	if err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}
	return nil
}

// ListLoginAttempts returns the newest attempts for subject, or for all
// subjects when subject is empty.
func (s *Store) ListLoginAttempts(ctx context.Context, subject string, limit int) ([]webstorage.LoginAttempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	subject = strings.ToLower(strings.TrimSpace(subject))

	query := `SELECT id, method, outcome, subject, user_id, reason, remote_ip, user_agent, request_id, occurred_at
	 FROM login_attempts`
	args := []any{}
	if subject != "" {
		query += ` WHERE subject = ?`
		args = append(args, subject)
	}
	query += ` ORDER BY occurred_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list login attempts: %w", err)
	}
	defer rows.Close()

	var attempts []webstorage.LoginAttempt
	for rows.Next() {
		var attempt webstorage.LoginAttempt
		var method, outcome string
		var occurredAt int64
		if err := rows.Scan(
			&attempt.ID,
			&method,
			&outcome,
			&attempt.Subject,
			&attempt.UserID,
			&attempt.Reason,
			&attempt.RemoteIP,
			&attempt.UserAgent,
			&attempt.RequestID,
			&occurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan login attempt: %w", err)
		}
		attempt.Method = webstorage.AttemptMethod(method)
		attempt.Outcome = webstorage.AttemptOutcome(outcome)
		attempt.OccurredAt = fromMillis(occurredAt)
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate login attempts: %w", err)
	}
	return attempts, nil
}
