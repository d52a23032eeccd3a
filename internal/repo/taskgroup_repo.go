package repo

import (
	"context"

	dom "github.com/yokanm/task-management-app/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskGroupRepo provides task group persistence. Every method is scoped to
// an owner; a row belonging to another user behaves like a missing row.
type TaskGroupRepo interface {
	Create(ctx context.Context, g dom.TaskGroup) (dom.TaskGroup, error)
	GetByID(ctx context.Context, ownerID, id int64) (dom.TaskGroup, error)
	List(ctx context.Context, ownerID int64) ([]dom.TaskGroup, error)
	Update(ctx context.Context, ownerID, id int64, patch dom.TaskGroup) (dom.TaskGroup, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// PGTaskGroupRepo implements TaskGroupRepo with Postgres.
type PGTaskGroupRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskGroupRepo(db *pgxpool.Pool) *PGTaskGroupRepo {
	return &PGTaskGroupRepo{db: db}
}

const taskGroupColumns = `id, owner_id, name, icon, color, created_at, updated_at`

func scanTaskGroup(row interface{ Scan(dest ...any) error }) (dom.TaskGroup, error) {
	var g dom.TaskGroup
	err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Icon, &g.Color, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (r *PGTaskGroupRepo) Create(ctx context.Context, g dom.TaskGroup) (dom.TaskGroup, error) {
	query := `
		INSERT INTO task_groups (owner_id, name, icon, color)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + taskGroupColumns
	return scanTaskGroup(r.db.QueryRow(ctx, query, g.OwnerID, g.Name, g.Icon, g.Color))
}

func (r *PGTaskGroupRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.TaskGroup, error) {
	query := `SELECT ` + taskGroupColumns + ` FROM task_groups WHERE id = $1 AND owner_id = $2`
	return scanTaskGroup(r.db.QueryRow(ctx, query, id, ownerID))
}

func (r *PGTaskGroupRepo) List(ctx context.Context, ownerID int64) ([]dom.TaskGroup, error) {
	query := `SELECT ` + taskGroupColumns + ` FROM task_groups WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.TaskGroup
	for rows.Next() {
		g, err := scanTaskGroup(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (r *PGTaskGroupRepo) Update(ctx context.Context, ownerID, id int64, patch dom.TaskGroup) (dom.TaskGroup, error) {
	query := `
		UPDATE task_groups SET name = $3, icon = $4, color = $5, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskGroupColumns
	return scanTaskGroup(r.db.QueryRow(ctx, query, id, ownerID, patch.Name, patch.Icon, patch.Color))
}

func (r *PGTaskGroupRepo) Delete(ctx context.Context, ownerID, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM task_groups WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return err
}
