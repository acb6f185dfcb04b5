package infra

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"imagegenie/internal/sqlinline"
)

// ApplySchema creates the Postgres tables used by the event log and the
// option catalog. It is safe to run repeatedly.
func ApplySchema(ctx context.Context, databaseURL string, logger Logger) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("migrate: open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("migrate: ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqlinline.Schema); err != nil {
		return fmt.Errorf("migrate: apply schema: %w", err)
	}
	logger.Info().Msg("schema applied")
	return nil
}
