package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"imagegenie/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "genie.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreReseedAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Reseed(ctx, domain.CategoryLighting, []string{"Soft", "Dramatic", "Backlit"}); err != nil {
		t.Fatalf("Reseed error: %v", err)
	}
	if err := store.Reseed(ctx, domain.CategoryContrast, []string{"High"}); err != nil {
		t.Fatalf("Reseed error: %v", err)
	}

	got, err := store.List(ctx, domain.CategoryLighting)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	want := []string{"Soft", "Dramatic", "Backlit"}
	if len(got) != len(want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// reseed replaces, never appends
	if err := store.Reseed(ctx, domain.CategoryLighting, []string{"Neon"}); err != nil {
		t.Fatalf("second Reseed error: %v", err)
	}
	got, _ = store.List(ctx, domain.CategoryLighting)
	if len(got) != 1 || got[0] != "Neon" {
		t.Fatalf("after reseed List = %v", got)
	}
	other, _ := store.List(ctx, domain.CategoryContrast)
	if len(other) != 1 || other[0] != "High" {
		t.Fatalf("other category touched: %v", other)
	}
}

func TestStoreListEmptyCategory(t *testing.T) {
	store := openTestStore(t)
	got, err := store.List(context.Background(), domain.CategoryStyle)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestStoreEventLogKeepsDuplicates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	first := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	if err := store.Append(ctx, domain.EventLogEntry{Prompt: "first", RevisedPrompt: "r1", Created: 1711920536, LoggedAt: first}); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if err := store.Append(ctx, domain.EventLogEntry{Prompt: "second", RevisedPrompt: "r2", Created: 1711920536}); err != nil {
		t.Fatalf("Append error: %v", err)
	}

	entry, err := store.FindByTimestamp(ctx, 1711920536)
	if err != nil {
		t.Fatalf("FindByTimestamp error: %v", err)
	}
	if entry.Prompt != "first" || entry.RevisedPrompt != "r1" {
		t.Fatalf("expected earliest entry, got %+v", entry)
	}
	if !entry.LoggedAt.Equal(first) || entry.ID == "" {
		t.Fatalf("unexpected metadata: %+v", entry)
	}

	var count int
	if err := store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_log WHERE created = ?`, 1711920536).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 entries, got %d", count)
	}
}

func TestStoreFindByTimestampNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.FindByTimestamp(context.Background(), 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genie.db")
	ctx := context.Background()
	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if err := store.Reseed(ctx, domain.CategoryStyle, []string{"Watercolor"}); err != nil {
		t.Fatalf("Reseed error: %v", err)
	}
	_ = store.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.List(ctx, domain.CategoryStyle)
	if err != nil || len(got) != 1 || got[0] != "Watercolor" {
		t.Fatalf("List after reopen = %v, %v", got, err)
	}
}
