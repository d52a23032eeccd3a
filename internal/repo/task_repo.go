package repo

import (
	"context"
	"time"

	dom "github.com/yokanm/task-management-app/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskStats are per-owner raw counters; the service derives the percentage.
type TaskStats struct {
	Total      int64
	Completed  int64
	InProgress int64
	Todo       int64
}

// TaskRepo provides task persistence, scoped to an owner. The store has no
// foreign keys to enforce the parent reference; filters over
// (parent_id, parent_type) are backed by a compound index.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, ownerID, id int64) (dom.Task, error)
	List(ctx context.Context, ownerID int64) ([]dom.Task, error)
	ListByStatus(ctx context.Context, ownerID int64, status dom.Status) ([]dom.Task, error)
	// ListDueBetween returns tasks with a due date in [from, to), ordered by due time.
	ListDueBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]dom.Task, error)
	ListByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) ([]dom.Task, error)
	Update(ctx context.Context, ownerID, id int64, patch dom.Task) (dom.Task, error)
	Delete(ctx context.Context, ownerID, id int64) error
	CountByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error)
	CountCompletedByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error)
	DeleteByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error)
	Stats(ctx context.Context, ownerID int64) (TaskStats, error)
}

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, owner_id, title, description, status, priority, due_date, due_time,
	parent_id, parent_type, tags, is_completed, completed_at, created_at, updated_at`

func scanTask(row interface{ Scan(dest ...any) error }) (dom.Task, error) {
	var t dom.Task
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.DueTime, &t.Parent.ID, &t.Parent.Kind, &t.Tags,
		&t.IsCompleted, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (owner_id, title, description, status, priority, due_date, due_time,
			parent_id, parent_type, tags, is_completed, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		t.OwnerID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.DueTime,
		t.Parent.ID, t.Parent.Kind, t.Tags, t.IsCompleted, t.CompletedAt))
}

func (r *PGTaskRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	return scanTask(r.db.QueryRow(ctx, query, id, ownerID))
}

func (r *PGTaskRepo) List(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.queryTasks(ctx, query, ownerID)
}

func (r *PGTaskRepo) ListByStatus(ctx context.Context, ownerID int64, status dom.Status) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE owner_id = $1 AND status = $2 ORDER BY created_at DESC`
	return r.queryTasks(ctx, query, ownerID, status)
}

func (r *PGTaskRepo) ListDueBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE owner_id = $1 AND due_date >= $2 AND due_date < $3
		ORDER BY due_time ASC, created_at DESC`
	return r.queryTasks(ctx, query, ownerID, from, to)
}

func (r *PGTaskRepo) ListByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE owner_id = $1 AND parent_id = $2 AND parent_type = $3
		ORDER BY created_at DESC`
	return r.queryTasks(ctx, query, ownerID, parent.ID, parent.Kind)
}

func (r *PGTaskRepo) Update(ctx context.Context, ownerID, id int64, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, status = $5, priority = $6, due_date = $7,
		    due_time = $8, parent_id = $9, parent_type = $10, tags = $11,
		    is_completed = $12, completed_at = $13, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, ownerID,
		patch.Title, patch.Description, patch.Status, patch.Priority, patch.DueDate,
		patch.DueTime, patch.Parent.ID, patch.Parent.Kind, patch.Tags,
		patch.IsCompleted, patch.CompletedAt))
}

func (r *PGTaskRepo) Delete(ctx context.Context, ownerID, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return err
}

func (r *PGTaskRepo) CountByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE owner_id = $1 AND parent_id = $2 AND parent_type = $3`,
		ownerID, parent.ID, parent.Kind,
	).Scan(&n)
	return n, err
}

func (r *PGTaskRepo) CountCompletedByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks
		 WHERE owner_id = $1 AND parent_id = $2 AND parent_type = $3 AND is_completed = TRUE`,
		ownerID, parent.ID, parent.Kind,
	).Scan(&n)
	return n, err
}

func (r *PGTaskRepo) DeleteByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM tasks WHERE owner_id = $1 AND parent_id = $2 AND parent_type = $3`,
		ownerID, parent.ID, parent.Kind,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGTaskRepo) Stats(ctx context.Context, ownerID int64) (TaskStats, error) {
	var st TaskStats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_completed),
		       COUNT(*) FILTER (WHERE status = 'In Progress'),
		       COUNT(*) FILTER (WHERE status = 'To do')
		FROM tasks WHERE owner_id = $1`,
		ownerID,
	).Scan(&st.Total, &st.Completed, &st.InProgress, &st.Todo)
	return st, err
}

func (r *PGTaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]dom.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
