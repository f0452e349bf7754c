package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/ganttboard/internal/db"
	"github.com/alexanderramin/ganttboard/internal/domain"
)

// workItemColumns is the canonical SELECT column list for work_items.
const workItemColumns = `id, name, type, status, progress, start_date, end_date,
		description, assignee, priority, blockers, approval, dependencies,
		parent_id, color, created_at, updated_at`

// SQLiteWorkItemRepo implements WorkItemRepo. It works on a plain *sql.DB
// or inside a transaction.
type SQLiteWorkItemRepo struct {
	db db.DBTX
}

func NewSQLiteWorkItemRepo(conn db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{db: conn}
}

// Create inserts w at the end of the snapshot order.
func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	blockers, err := encodeList(w.Blockers)
	if err != nil {
		return fmt.Errorf("encoding blockers: %w", err)
	}
	deps, err := encodeList(w.Dependencies)
	if err != nil {
		return fmt.Errorf("encoding dependencies: %w", err)
	}

	query := `INSERT INTO work_items (id, name, type, status, progress, start_date, end_date,
		description, assignee, priority, blockers, approval, dependencies,
		parent_id, color, seq, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM work_items), ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		w.ID,
		w.Name,
		string(w.Type),
		string(w.Status),
		w.Progress,
		timeToString(w.StartDate),
		timeToString(w.EndDate),
		w.Description,
		w.Assignee,
		string(w.Priority),
		blockers,
		string(w.Approval),
		deps,
		nullableString(w.ParentID),
		w.Color,
		timeToString(w.CreatedAt),
		timeToString(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workItemColumns+` FROM work_items WHERE id = ?`, id)
	w, err := scanWorkItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("work item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning work item: %w", err)
	}
	return w, nil
}

func (r *SQLiteWorkItemRepo) List(ctx context.Context) ([]*domain.WorkItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+workItemColumns+` FROM work_items ORDER BY seq, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing work items: %w", err)
	}
	defer rows.Close()
	return scanWorkItems(rows)
}

func (r *SQLiteWorkItemRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.WorkItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workItemColumns+` FROM work_items WHERE parent_id = ? ORDER BY seq, created_at`, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child work items: %w", err)
	}
	defer rows.Close()
	return scanWorkItems(rows)
}

// Update overwrites every mutable column of w. Missing rows are ErrNotFound.
func (r *SQLiteWorkItemRepo) Update(ctx context.Context, w *domain.WorkItem) error {
	blockers, err := encodeList(w.Blockers)
	if err != nil {
		return fmt.Errorf("encoding blockers: %w", err)
	}
	deps, err := encodeList(w.Dependencies)
	if err != nil {
		return fmt.Errorf("encoding dependencies: %w", err)
	}

	query := `UPDATE work_items SET name = ?, type = ?, status = ?, progress = ?,
		start_date = ?, end_date = ?, description = ?, assignee = ?, priority = ?,
		blockers = ?, approval = ?, dependencies = ?, parent_id = ?, color = ?,
		updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		w.Name,
		string(w.Type),
		string(w.Status),
		w.Progress,
		timeToString(w.StartDate),
		timeToString(w.EndDate),
		w.Description,
		w.Assignee,
		string(w.Priority),
		blockers,
		string(w.Approval),
		deps,
		nullableString(w.ParentID),
		w.Color,
		timeToString(w.UpdatedAt),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work item: %w", err)
	}
	return requireAffected(res, "work item "+w.ID)
}

// Delete removes the item. Children and dependants keep their now-dangling
// references.
func (r *SQLiteWorkItemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work item: %w", err)
	}
	return requireAffected(res, "work item "+id)
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkItem(row rowScanner) (*domain.WorkItem, error) {
	var w domain.WorkItem
	var typ, status, priority, approval string
	var startStr, endStr, createdStr, updatedStr string
	var blockersStr, depsStr string
	var parent sql.NullString

	if err := row.Scan(
		&w.ID, &w.Name, &typ, &status, &w.Progress, &startStr, &endStr,
		&w.Description, &w.Assignee, &priority, &blockersStr, &approval, &depsStr,
		&parent, &w.Color, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}

	w.Type = domain.ItemType(typ)
	w.Status = domain.ItemStatus(status)
	w.Priority = domain.Priority(priority)
	w.Approval = domain.Approval(approval)
	w.ParentID = parseNullableString(parent)

	var err error
	if w.Blockers, err = decodeList("blockers", blockersStr); err != nil {
		return nil, err
	}
	if w.Dependencies, err = decodeList("dependencies", depsStr); err != nil {
		return nil, err
	}
	if w.StartDate, err = parseTime("start_date", startStr); err != nil {
		return nil, err
	}
	if w.EndDate, err = parseTime("end_date", endStr); err != nil {
		return nil, err
	}
	if w.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime("updated_at", updatedStr); err != nil {
		return nil, err
	}
	return &w, nil
}

func scanWorkItems(rows *sql.Rows) ([]*domain.WorkItem, error) {
	var items []*domain.WorkItem
	for rows.Next() {
		w, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning work item row: %w", err)
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work items: %w", err)
	}
	return items, nil
}
