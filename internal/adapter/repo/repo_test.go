package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"imagegenie/internal/domain"
	"imagegenie/internal/sqlinline"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type stubRows struct {
	names []string
	idx   int
	err   error
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.names) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.names[r.idx-1]
	return nil
}

type execCall struct {
	query string
	args  []any
}

type stubExecutor struct {
	execs   []execCall
	execErr error
	row     stubRow
	rows    *stubRows
	queries []string
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.execs = append(s.execs, execCall{query: query, args: args})
	return pgconn.CommandTag{}, s.execErr
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.queries = append(s.queries, query)
	return s.row
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	s.queries = append(s.queries, query)
	if s.rows == nil {
		return nil, errors.New("no rows configured")
	}
	return s.rows, nil
}

func TestEventLogAppend(t *testing.T) {
	exec := &stubExecutor{}
	log := NewEventLog(exec)
	at := time.Date(2024, 3, 31, 21, 28, 56, 0, time.UTC)
	id := uuid.NewString()

	err := log.Append(context.Background(), domain.EventLogEntry{
		ID:            id,
		RequestID:     "req-9",
		Prompt:        "Subject: owl",
		RevisedPrompt: "an owl",
		Created:       1711920536,
		LoggedAt:      at,
	})
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if len(exec.execs) != 1 {
		t.Fatalf("expected 1 exec, got %d", len(exec.execs))
	}
	call := exec.execs[0]
	if call.query != sqlinline.QInsertEventLog {
		t.Fatalf("unexpected query: %s", call.query)
	}
	if got := call.args[0].(uuid.UUID).String(); got != id {
		t.Fatalf("id arg = %s", got)
	}
	if call.args[4].(int64) != 1711920536 || call.args[5].(time.Time) != at {
		t.Fatalf("unexpected args: %#v", call.args)
	}
}

func TestEventLogAppendAssignsID(t *testing.T) {
	exec := &stubExecutor{}
	if err := NewEventLog(exec).Append(context.Background(), domain.EventLogEntry{Prompt: "p", Created: 1}); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if _, ok := exec.execs[0].args[0].(uuid.UUID); !ok {
		t.Fatalf("expected generated uuid, got %#v", exec.execs[0].args[0])
	}
}

func TestEventLogAppendWrapsError(t *testing.T) {
	boom := errors.New("connection reset")
	exec := &stubExecutor{execErr: boom}
	err := NewEventLog(exec).Append(context.Background(), domain.EventLogEntry{Prompt: "p", Created: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestEventLogFindByTimestamp(t *testing.T) {
	at := time.Now().UTC()
	exec := &stubExecutor{row: stubRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "7b0d0d6e-5f0c-4a52-9d7b-2a0b1f8f4f55"
		*(dest[1].(*string)) = "req-1"
		*(dest[2].(*string)) = "Subject: owl"
		*(dest[3].(*string)) = "an owl"
		*(dest[4].(*int64)) = 42
		*(dest[5].(*time.Time)) = at
		return nil
	}}}
	entry, err := NewEventLog(exec).FindByTimestamp(context.Background(), 42)
	if err != nil {
		t.Fatalf("FindByTimestamp error: %v", err)
	}
	if entry.Created != 42 || entry.RevisedPrompt != "an owl" || !entry.LoggedAt.Equal(at) {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !strings.Contains(exec.queries[0], "order by e.seq asc") {
		t.Fatal("lookup must return the earliest entry")
	}
}

func TestEventLogFindByTimestampNotFound(t *testing.T) {
	exec := &stubExecutor{}
	if _, err := NewEventLog(exec).FindByTimestamp(context.Background(), 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOptionCatalogList(t *testing.T) {
	exec := &stubExecutor{rows: &stubRows{names: []string{"Illustrator", "Photographer"}}}
	names, err := NewOptionCatalog(exec).List(context.Background(), domain.CategorySpecialization)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(names) != 2 || names[0] != "Illustrator" || names[1] != "Photographer" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestOptionCatalogListEmpty(t *testing.T) {
	exec := &stubExecutor{rows: &stubRows{}}
	names, err := NewOptionCatalog(exec).List(context.Background(), domain.CategoryLighting)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", names)
	}
}

func TestOptionCatalogReseedSingleStatement(t *testing.T) {
	exec := &stubExecutor{}
	labels := []string{"Soft", "Dramatic"}
	if err := NewOptionCatalog(exec).Reseed(context.Background(), domain.CategoryLighting, labels); err != nil {
		t.Fatalf("Reseed error: %v", err)
	}
	if len(exec.execs) != 1 {
		t.Fatalf("reseed must be one statement, got %d", len(exec.execs))
	}
	call := exec.execs[0]
	if call.query != sqlinline.QReseedOptions || call.args[0] != "lighting" {
		t.Fatalf("unexpected call: %+v", call)
	}
	got := call.args[1].([]string)
	if len(got) != 2 || got[0] != "Soft" || got[1] != "Dramatic" {
		t.Fatalf("labels arg = %v", got)
	}
}

func TestOptionCatalogRejectsUnknownCategory(t *testing.T) {
	exec := &stubExecutor{}
	if err := NewOptionCatalog(exec).Reseed(context.Background(), domain.Category(99), nil); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if len(exec.execs) != 0 {
		t.Fatal("no statement expected")
	}
}
