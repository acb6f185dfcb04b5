package infra

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"imagegenie/internal/sqlinline"
)

type recordingExecutor struct {
	queries []string
	err     error
}

func (r *recordingExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	r.queries = append(r.queries, query)
	return pgconn.NewCommandTag("INSERT 0 1"), r.err
}

func (r *recordingExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	r.queries = append(r.queries, query)
	return errorRow{err: pgx.ErrNoRows}
}

func (r *recordingExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	r.queries = append(r.queries, query)
	return nil, r.err
}

func TestSQLRunnerStripsMarker(t *testing.T) {
	var buf bytes.Buffer
	exec := &recordingExecutor{}
	runner := NewSQLRunner(exec, zerolog.New(&buf).Level(zerolog.DebugLevel))

	if _, err := runner.Exec(context.Background(), sqlinline.QInsertEventLog); err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if strings.HasPrefix(exec.queries[0], "--sql") {
		t.Fatalf("marker forwarded to database: %q", exec.queries[0])
	}
	if !strings.Contains(exec.queries[0], "insert into event_log") {
		t.Fatalf("statement body lost: %q", exec.queries[0])
	}
	if !strings.Contains(buf.String(), `"sql":"26e6e8ee-289d-4311-80b2-107138cef347"`) {
		t.Fatalf("audit line missing marker: %s", buf.String())
	}
}

func TestSQLRunnerRejectsUnmarkedStatements(t *testing.T) {
	exec := &recordingExecutor{}
	runner := NewSQLRunner(exec, zerolog.Nop())

	if _, err := runner.Exec(context.Background(), "delete from event_log"); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("expected ErrMissingMarker, got %v", err)
	}
	if err := runner.QueryRow(context.Background(), "select 1").Scan(); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("expected ErrMissingMarker from QueryRow, got %v", err)
	}
	if _, err := runner.Query(context.Background(), "select 1"); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("expected ErrMissingMarker from Query, got %v", err)
	}
	if len(exec.queries) != 0 {
		t.Fatalf("unmarked statements reached the database: %v", exec.queries)
	}
}

func TestSQLRunnerQueryRowPassesNoRows(t *testing.T) {
	exec := &recordingExecutor{}
	runner := NewSQLRunner(exec, zerolog.Nop())
	err := runner.QueryRow(context.Background(), sqlinline.QSelectEventByCreated, int64(1)).Scan()
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}
