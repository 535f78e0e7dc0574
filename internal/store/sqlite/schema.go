package sqlite

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		project     TEXT NOT NULL DEFAULT '',
		model       TEXT NOT NULL DEFAULT '',
		difficulty  TEXT NOT NULL DEFAULT '',
		questions   INTEGER NOT NULL DEFAULT 0,
		started_at  TEXT NOT NULL,
		finished_at TEXT,
		accuracy    REAL
	);

	CREATE TABLE IF NOT EXISTS results (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		row_id     INTEGER NOT NULL,
		question   TEXT NOT NULL,
		difficulty TEXT NOT NULL DEFAULT '',
		expected   TEXT NOT NULL DEFAULT '[]',
		predicted  TEXT NOT NULL DEFAULT '[]',
		score      REAL NOT NULL,
		error      TEXT NOT NULL DEFAULT '',
		CONSTRAINT uq_result_row UNIQUE (run_id, row_id)
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON results (run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs (started_at);
	`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
