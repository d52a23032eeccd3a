package repo

import (
	"context"

	dom "github.com/yokanm/task-management-app/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	Create(ctx context.Context, username, passwordHash string) (dom.User, error)
	Deactivate(ctx context.Context, id int64, saltedUsername string) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByUsername returns the active user by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, is_active, created_at
		 FROM users WHERE username = $1 AND is_active = TRUE`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	return u, err
}

// GetByID returns the active user by ID.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, is_active, created_at
		 FROM users WHERE id = $1 AND is_active = TRUE`,
		id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	return u, err
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, is_active, created_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, username, passwordHash).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt,
	)
	return u, err
}

// Deactivate soft-deletes the account. The salted username frees the
// original name for re-registration.
func (r *PGUserRepo) Deactivate(ctx context.Context, id int64, saltedUsername string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET is_active = FALSE, username = $2 WHERE id = $1 AND is_active = TRUE`,
		id, saltedUsername,
	)
	return err
}
