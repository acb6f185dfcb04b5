package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"imagegenie/internal/domain"
	"imagegenie/internal/infra"
	"imagegenie/internal/sqlinline"
)

// EventLogPG implements domain.EventLog on PostgreSQL.
type EventLogPG struct {
	db infra.SQLExecutor
}

// NewEventLog constructs an event log backed by the given executor.
func NewEventLog(db infra.SQLExecutor) *EventLogPG {
	return &EventLogPG{db: db}
}

// Append inserts entry. Entries sharing a created timestamp are all kept.
func (r *EventLogPG) Append(ctx context.Context, entry domain.EventLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	id, err := uuid.Parse(entry.ID)
	if err != nil {
		return fmt.Errorf("event log: invalid entry id: %w", err)
	}
	loggedAt := entry.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now().UTC()
	}
	if _, err := r.db.Exec(ctx, sqlinline.QInsertEventLog,
		id,
		entry.RequestID,
		entry.Prompt,
		entry.RevisedPrompt,
		entry.Created,
		loggedAt,
	); err != nil {
		return fmt.Errorf("event log: insert: %w", err)
	}
	return nil
}

// FindByTimestamp returns the earliest entry whose created value matches.
func (r *EventLogPG) FindByTimestamp(ctx context.Context, created int64) (*domain.EventLogEntry, error) {
	var entry domain.EventLogEntry
	err := r.db.QueryRow(ctx, sqlinline.QSelectEventByCreated, created).Scan(
		&entry.ID,
		&entry.RequestID,
		&entry.Prompt,
		&entry.RevisedPrompt,
		&entry.Created,
		&entry.LoggedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("event log: find: %w", err)
	}
	return &entry, nil
}

var _ domain.EventLog = (*EventLogPG)(nil)
