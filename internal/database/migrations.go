package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

const archiveSchema = `
CREATE TABLE paper_trades (
	id          UUID PRIMARY KEY,
	symbol      TEXT NOT NULL,
	side        TEXT NOT NULL,
	size        DOUBLE PRECISION NOT NULL,
	entry_price DOUBLE PRECISION NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	leverage    DOUBLE PRECISION NOT NULL DEFAULT 1,
	exit_price  DOUBLE PRECISION NOT NULL,
	pnl         DOUBLE PRECISION NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	closed_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX idx_paper_trades_closed_at ON paper_trades (closed_at DESC);
`

// RunMigrations creates the trade archive schema if it does not exist yet
func RunMigrations(db *pgxpool.Pool) error {
	ctx := context.Background()

	log.Println("Running database migrations...")

	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'paper_trades'
		)
	`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if migrations needed: %w", err)
	}

	if exists {
		log.Println("[OK] Database already migrated, skipping")
		return nil
	}

	if _, err := db.Exec(ctx, archiveSchema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("[OK] Database migrations completed")
	return nil
}
