package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"imagegenie/internal/domain"
)

// Store is the single-file backend used by the desktop build. It serves both
// the event log and the option catalog.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures its tables exist.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite: path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	// One writer at a time; sqlite serialises writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create tables: %w", err)
	}
	return s, nil
}

// Close releases the underlying handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS event_log (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			request_id TEXT NOT NULL DEFAULT '',
			prompt TEXT NOT NULL,
			revised_prompt TEXT NOT NULL DEFAULT '',
			created INTEGER NOT NULL,
			logged_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS event_log_created_idx ON event_log (created, seq);`,
		`CREATE TABLE IF NOT EXISTS option_catalog (
			category TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS option_catalog_category_idx ON option_catalog (category, position);`,
	}
	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// Append inserts entry. No uniqueness is enforced on created.
func (s *Store) Append(ctx context.Context, entry domain.EventLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO event_log (id, request_id, prompt, revised_prompt, created, logged_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.RequestID, entry.Prompt, entry.RevisedPrompt, entry.Created, entry.LoggedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite: append event: %w", err)
	}
	return nil
}

// FindByTimestamp returns the earliest entry with the given created value.
func (s *Store) FindByTimestamp(ctx context.Context, created int64) (*domain.EventLogEntry, error) {
	var (
		entry    domain.EventLogEntry
		loggedAt string
	)
	err := s.db.QueryRowContext(ctx, `
	SELECT id, request_id, prompt, revised_prompt, created, logged_at
	FROM event_log
	WHERE created = ?
	ORDER BY seq ASC
	LIMIT 1
	`, created).Scan(&entry.ID, &entry.RequestID, &entry.Prompt, &entry.RevisedPrompt, &entry.Created, &loggedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find event: %w", err)
	}
	if entry.LoggedAt, err = time.Parse(time.RFC3339Nano, loggedAt); err != nil {
		return nil, fmt.Errorf("sqlite: parse logged_at: %w", err)
	}
	return &entry, nil
}

// List returns the labels of category in seeded order.
func (s *Store) List(ctx context.Context, category domain.Category) ([]string, error) {
	if !category.Valid() {
		return nil, domain.ErrUnknownCategory
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT name
	FROM option_catalog
	WHERE category = ?
	ORDER BY position ASC
	`, category.Key())
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", category, err)
	}
	defer rows.Close()

	names := make([]string, 0, 16)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scan %s: %w", category, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", category, err)
	}
	return names, nil
}

// Reseed truncates category and inserts labels in order, inside one
// transaction.
func (s *Store) Reseed(ctx context.Context, category domain.Category, labels []string) (err error) {
	if !category.Valid() {
		return domain.ErrUnknownCategory
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin reseed: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM option_catalog WHERE category = ?`, category.Key()); err != nil {
		return fmt.Errorf("sqlite: truncate %s: %w", category, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO option_catalog (category, position, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare reseed: %w", err)
	}
	defer stmt.Close()
	for i, label := range labels {
		if _, err = stmt.ExecContext(ctx, category.Key(), i+1, label); err != nil {
			return fmt.Errorf("sqlite: insert %s: %w", category, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit reseed: %w", err)
	}
	return nil
}

var (
	_ domain.EventLog      = (*Store)(nil)
	_ domain.OptionCatalog = (*Store)(nil)
)
