package repo

import (
	"context"

	dom "github.com/yokanm/task-management-app/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProjectRepo provides project persistence, scoped to an owner.
type ProjectRepo interface {
	Create(ctx context.Context, p dom.Project) (dom.Project, error)
	GetByID(ctx context.Context, ownerID, id int64) (dom.Project, error)
	List(ctx context.Context, ownerID int64) ([]dom.Project, error)
	Update(ctx context.Context, ownerID, id int64, patch dom.Project) (dom.Project, error)
	Delete(ctx context.Context, ownerID, id int64) error
	// CountByTaskGroup reports how many projects reference the group.
	// Used by the task-group delete guard.
	CountByTaskGroup(ctx context.Context, ownerID, groupID int64) (int64, error)
}

// PGProjectRepo implements ProjectRepo with Postgres.
type PGProjectRepo struct {
	db *pgxpool.Pool
}

func NewPGProjectRepo(db *pgxpool.Pool) *PGProjectRepo {
	return &PGProjectRepo{db: db}
}

const projectColumns = `id, owner_id, name, description, logo, task_group_id, start_date, end_date, color, created_at, updated_at`

func scanProject(row interface{ Scan(dest ...any) error }) (dom.Project, error) {
	var p dom.Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Logo, &p.TaskGroupID,
		&p.StartDate, &p.EndDate, &p.Color, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PGProjectRepo) Create(ctx context.Context, p dom.Project) (dom.Project, error) {
	query := `
		INSERT INTO projects (owner_id, name, description, logo, task_group_id, start_date, end_date, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + projectColumns
	return scanProject(r.db.QueryRow(ctx, query,
		p.OwnerID, p.Name, p.Description, p.Logo, p.TaskGroupID, p.StartDate, p.EndDate, p.Color))
}

func (r *PGProjectRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND owner_id = $2`
	return scanProject(r.db.QueryRow(ctx, query, id, ownerID))
}

func (r *PGProjectRepo) List(ctx context.Context, ownerID int64) ([]dom.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGProjectRepo) Update(ctx context.Context, ownerID, id int64, patch dom.Project) (dom.Project, error) {
	query := `
		UPDATE projects
		SET name = $3, description = $4, logo = $5, task_group_id = $6,
		    start_date = $7, end_date = $8, color = $9, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + projectColumns
	return scanProject(r.db.QueryRow(ctx, query, id, ownerID,
		patch.Name, patch.Description, patch.Logo, patch.TaskGroupID,
		patch.StartDate, patch.EndDate, patch.Color))
}

func (r *PGProjectRepo) Delete(ctx context.Context, ownerID, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return err
}

func (r *PGProjectRepo) CountByTaskGroup(ctx context.Context, ownerID, groupID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects WHERE owner_id = $1 AND task_group_id = $2`,
		ownerID, groupID,
	).Scan(&n)
	return n, err
}
