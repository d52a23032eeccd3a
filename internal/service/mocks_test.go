package service

import (
	"context"
	"time"

	dom "github.com/yokanm/task-management-app/internal/domain"
	"github.com/yokanm/task-management-app/internal/repo"

	"github.com/jackc/pgx/v5"
)

// Function-field mocks; a nil field behaves like an empty store.

func errNoRows() error { return pgx.ErrNoRows }

type mockTaskGroupRepo struct {
	CreateFunc  func(ctx context.Context, g dom.TaskGroup) (dom.TaskGroup, error)
	GetByIDFunc func(ctx context.Context, ownerID, id int64) (dom.TaskGroup, error)
	ListFunc    func(ctx context.Context, ownerID int64) ([]dom.TaskGroup, error)
	UpdateFunc  func(ctx context.Context, ownerID, id int64, patch dom.TaskGroup) (dom.TaskGroup, error)
	DeleteFunc  func(ctx context.Context, ownerID, id int64) error
}

func (m *mockTaskGroupRepo) Create(ctx context.Context, g dom.TaskGroup) (dom.TaskGroup, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, g)
	}
	g.ID = 1
	return g, nil
}

func (m *mockTaskGroupRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.TaskGroup, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ownerID, id)
	}
	return dom.TaskGroup{}, pgx.ErrNoRows
}

func (m *mockTaskGroupRepo) List(ctx context.Context, ownerID int64) ([]dom.TaskGroup, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTaskGroupRepo) Update(ctx context.Context, ownerID, id int64, patch dom.TaskGroup) (dom.TaskGroup, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, id, patch)
	}
	patch.ID = id
	patch.OwnerID = ownerID
	return patch, nil
}

func (m *mockTaskGroupRepo) Delete(ctx context.Context, ownerID, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, id)
	}
	return nil
}

type mockProjectRepo struct {
	CreateFunc           func(ctx context.Context, p dom.Project) (dom.Project, error)
	GetByIDFunc          func(ctx context.Context, ownerID, id int64) (dom.Project, error)
	ListFunc             func(ctx context.Context, ownerID int64) ([]dom.Project, error)
	UpdateFunc           func(ctx context.Context, ownerID, id int64, patch dom.Project) (dom.Project, error)
	DeleteFunc           func(ctx context.Context, ownerID, id int64) error
	CountByTaskGroupFunc func(ctx context.Context, ownerID, groupID int64) (int64, error)
}

func (m *mockProjectRepo) Create(ctx context.Context, p dom.Project) (dom.Project, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = 1
	return p, nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.Project, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ownerID, id)
	}
	return dom.Project{}, pgx.ErrNoRows
}

func (m *mockProjectRepo) List(ctx context.Context, ownerID int64) ([]dom.Project, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockProjectRepo) Update(ctx context.Context, ownerID, id int64, patch dom.Project) (dom.Project, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, id, patch)
	}
	patch.ID = id
	patch.OwnerID = ownerID
	return patch, nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, ownerID, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, id)
	}
	return nil
}

func (m *mockProjectRepo) CountByTaskGroup(ctx context.Context, ownerID, groupID int64) (int64, error) {
	if m.CountByTaskGroupFunc != nil {
		return m.CountByTaskGroupFunc(ctx, ownerID, groupID)
	}
	return 0, nil
}

type mockTaskRepo struct {
	CreateFunc                 func(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByIDFunc                func(ctx context.Context, ownerID, id int64) (dom.Task, error)
	ListFunc                   func(ctx context.Context, ownerID int64) ([]dom.Task, error)
	ListByStatusFunc           func(ctx context.Context, ownerID int64, status dom.Status) ([]dom.Task, error)
	ListDueBetweenFunc         func(ctx context.Context, ownerID int64, from, to time.Time) ([]dom.Task, error)
	ListByParentFunc           func(ctx context.Context, ownerID int64, parent dom.ParentRef) ([]dom.Task, error)
	UpdateFunc                 func(ctx context.Context, ownerID, id int64, patch dom.Task) (dom.Task, error)
	DeleteFunc                 func(ctx context.Context, ownerID, id int64) error
	CountByParentFunc          func(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error)
	CountCompletedByParentFunc func(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error)
	DeleteByParentFunc         func(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error)
	StatsFunc                  func(ctx context.Context, ownerID int64) (repo.TaskStats, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	t.ID = 1
	return t, nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ownerID, id)
	}
	return dom.Task{}, pgx.ErrNoRows
}

func (m *mockTaskRepo) List(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTaskRepo) ListByStatus(ctx context.Context, ownerID int64, status dom.Status) ([]dom.Task, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, ownerID, status)
	}
	return nil, nil
}

func (m *mockTaskRepo) ListDueBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]dom.Task, error) {
	if m.ListDueBetweenFunc != nil {
		return m.ListDueBetweenFunc(ctx, ownerID, from, to)
	}
	return nil, nil
}

func (m *mockTaskRepo) ListByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) ([]dom.Task, error) {
	if m.ListByParentFunc != nil {
		return m.ListByParentFunc(ctx, ownerID, parent)
	}
	return nil, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, ownerID, id int64, patch dom.Task) (dom.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, id, patch)
	}
	patch.ID = id
	patch.OwnerID = ownerID
	return patch, nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, ownerID, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, id)
	}
	return nil
}

func (m *mockTaskRepo) CountByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error) {
	if m.CountByParentFunc != nil {
		return m.CountByParentFunc(ctx, ownerID, parent)
	}
	return 0, nil
}

func (m *mockTaskRepo) CountCompletedByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error) {
	if m.CountCompletedByParentFunc != nil {
		return m.CountCompletedByParentFunc(ctx, ownerID, parent)
	}
	return 0, nil
}

func (m *mockTaskRepo) DeleteByParent(ctx context.Context, ownerID int64, parent dom.ParentRef) (int64, error) {
	if m.DeleteByParentFunc != nil {
		return m.DeleteByParentFunc(ctx, ownerID, parent)
	}
	return 0, nil
}

func (m *mockTaskRepo) Stats(ctx context.Context, ownerID int64) (repo.TaskStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, ownerID)
	}
	return repo.TaskStats{}, nil
}

type mockUserRepo struct {
	GetByUsernameFunc func(ctx context.Context, username string) (dom.User, error)
	GetByIDFunc       func(ctx context.Context, id int64) (dom.User, error)
	CreateFunc        func(ctx context.Context, username, passwordHash string) (dom.User, error)
	DeactivateFunc    func(ctx context.Context, id int64, saltedUsername string) error
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return dom.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return dom.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, username, passwordHash)
	}
	return dom.User{ID: 1, Username: username, PasswordHash: passwordHash, IsActive: true}, nil
}

func (m *mockUserRepo) Deactivate(ctx context.Context, id int64, saltedUsername string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id, saltedUsername)
	}
	return nil
}
