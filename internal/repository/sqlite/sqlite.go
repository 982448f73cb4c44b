// Package sqlite implements the login history store on SQLite
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"portalkombat/internal/domain"
	"portalkombat/internal/repository"
)

var _ repository.AttemptRepository = (*Repository)(nil)

// Repository implements repository.AttemptRepository using SQLite
type Repository struct {
	db   *sql.DB
	keep int
}

// New opens (creating if needed) the database at dbPath. ":memory:" opens
// a private in-memory database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer, and every :memory: connection would be a separate database
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

// WithRetention makes RecordAttempt prune to keep rows after each insert.
// keep <= 0 disables pruning.
func (r *Repository) WithRetention(keep int) *Repository {
	r.keep = keep
	return r
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		id TEXT PRIMARY KEY,
		at INTEGER NOT NULL,
		portal_url TEXT NOT NULL,
		portal_host TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_at ON attempts(at);
	CREATE INDEX IF NOT EXISTS idx_attempts_outcome ON attempts(outcome);
	`

	_, err := r.db.Exec(schema)
	return err
}

// InsertAttempt stores one attempt
func (r *Repository) InsertAttempt(ctx context.Context, a domain.Attempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attempts (id, at, portal_url, portal_host, outcome, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.At.UnixNano(), a.PortalURL, a.PortalHost, a.Outcome.String(), a.Detail)
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}
	return nil
}

// RecordAttempt inserts an attempt and applies the retention limit
func (r *Repository) RecordAttempt(ctx context.Context, a domain.Attempt) error {
	if err := r.InsertAttempt(ctx, a); err != nil {
		return err
	}
	if r.keep > 0 {
		removed, err := r.Prune(ctx, r.keep)
		if err != nil {
			return err
		}
		if removed > 0 {
			log.WithField("removed", removed).Debug("Pruned login history")
		}
	}
	return nil
}

// RecentAttempts returns up to limit attempts, newest first
func (r *Repository) RecentAttempts(ctx context.Context, limit int) ([]domain.Attempt, error) {
	if limit <= 0 {
		return []domain.Attempt{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, at, portal_url, portal_host, outcome, detail
		FROM attempts
		ORDER BY at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	attempts := []domain.Attempt{}
	for rows.Next() {
		var (
			a       domain.Attempt
			at      int64
			outcome string
		)
		if err := rows.Scan(&a.ID, &at, &a.PortalURL, &a.PortalHost, &outcome, &a.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.At = time.Unix(0, at).UTC()
		a.Outcome = domain.ParseLoginOutcome(outcome)
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}

	return attempts, nil
}

// Prune deletes all but the keep most recent attempts and returns how many
// rows were removed
func (r *Repository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM attempts WHERE rowid NOT IN (
			SELECT rowid FROM attempts ORDER BY at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune attempts: %w", err)
	}
	return res.RowsAffected()
}

// CountByOutcome returns the number of stored attempts per outcome
func (r *Repository) CountByOutcome(ctx context.Context) (map[domain.LoginOutcome]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM attempts GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.LoginOutcome]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[domain.ParseLoginOutcome(outcome)] += n
	}

	return counts, rows.Err()
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
