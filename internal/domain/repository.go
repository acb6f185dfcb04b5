package domain

import (
	"context"
	"time"
)

// EventLogEntry is the audit record written after every successful
// generation. Created is the provider timestamp and acts as the lookup key.
type EventLogEntry struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id,omitempty"`
	Prompt        string    `json:"prompt"`
	RevisedPrompt string    `json:"revised_prompt"`
	Created       int64     `json:"created"`
	LoggedAt      time.Time `json:"logged_at"`
}

// EventLog is append-only; entries are never updated.
type EventLog interface {
	Append(ctx context.Context, entry EventLogEntry) error
	// FindByTimestamp returns the first entry logged for created, or ErrNotFound.
	FindByTimestamp(ctx context.Context, created int64) (*EventLogEntry, error)
}

// OptionCatalog serves the curated option lists.
type OptionCatalog interface {
	List(ctx context.Context, category Category) ([]string, error)
	// Reseed replaces every label of category with labels, in order.
	Reseed(ctx context.Context, category Category, labels []string) error
}
