package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate brings the schema up to date. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Columns added by ALTER TABLE already exist on fresh databases.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSeq(db); err != nil {
		return fmt.Errorf("backfilling seq values: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_items (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		type         TEXT NOT NULL DEFAULT 'task'
		             CHECK(type IN ('phase','milestone','task')),
		status       TEXT NOT NULL DEFAULT 'not-started'
		             CHECK(status IN ('not-started','in-progress','completed','on-hold','cancelled')),
		progress     INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
		start_date   TEXT NOT NULL,
		end_date     TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		assignee     TEXT NOT NULL DEFAULT '',
		priority     TEXT NOT NULL DEFAULT 'medium'
		             CHECK(priority IN ('low','medium','high','critical')),
		blockers     TEXT NOT NULL DEFAULT '[]',
		dependencies TEXT NOT NULL DEFAULT '[]',
		parent_id    TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	// Added after the first release.
	`ALTER TABLE work_items ADD COLUMN approval TEXT NOT NULL DEFAULT 'not-required'
		CHECK(approval IN ('pending','approved','rejected','not-required'))`,
	`ALTER TABLE work_items ADD COLUMN color TEXT NOT NULL DEFAULT '#3B82F6'`,
	`ALTER TABLE work_items ADD COLUMN seq INTEGER NOT NULL DEFAULT 0`,

	`CREATE INDEX IF NOT EXISTS idx_work_items_parent ON work_items(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_seq ON work_items(seq)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_status ON work_items(status)`,
}

// migrateBackfillSeq numbers rows that predate the seq column (seq = 0)
// after the highest existing seq, in creation order. seq fixes snapshot
// order, which drives group and child ordering.
func migrateBackfillSeq(db *sql.DB) error {
	ctx := context.Background()

	var pending int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_items WHERE seq = 0`).Scan(&pending); err != nil {
		return fmt.Errorf("checking work_items seq: %w", err)
	}
	if pending == 0 {
		return nil
	}

	var next int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM work_items`).Scan(&next); err != nil {
		return fmt.Errorf("reading max seq: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM work_items WHERE seq = 0 ORDER BY created_at, rowid`)
	if err != nil {
		return fmt.Errorf("listing work items for seq backfill: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning work item id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating work items: %w", err)
	}

	for _, id := range ids {
		if _, err := db.ExecContext(ctx, `UPDATE work_items SET seq = ? WHERE id = ? AND seq = 0`, next, id); err != nil {
			return fmt.Errorf("updating work item seq: %w", err)
		}
		next++
	}
	return nil
}
