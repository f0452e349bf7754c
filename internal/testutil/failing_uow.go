package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/ganttboard/internal/db"
)

// FailOnNthExecUoW runs transactions like the real unit of work but makes
// the FailOn-th write inside each transaction return Err. Reads are never
// counted or failed. Use it to check that multi-row writes roll back.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(ctx, &execTrap{DBTX: tx, failOn: u.FailOn, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// execTrap counts writes and fails the configured one. A transaction runs
// on a single goroutine, so the counter needs no locking.
type execTrap struct {
	db.DBTX
	writes int32
	failOn int32
	err    error
}

func (t *execTrap) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	t.writes++
	if t.writes == t.failOn {
		return nil, t.err
	}
	return t.DBTX.ExecContext(ctx, query, args...)
}
