package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	dom "github.com/yokanm/task-management-app/internal/domain"
	"github.com/yokanm/task-management-app/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/yokanm/task-management-app/internal/cache"
)

// ProjectService owns the project lifecycle: the task-group dependency with
// auto-provisioning, the date invariant, and the delete guard plus cascade.
type ProjectService struct {
	projects repo.ProjectRepo
	groups   repo.TaskGroupRepo
	tasks    repo.TaskRepo
	agg      *Aggregator
	cache    *cache.Views
	sf       singleflight.Group
}

// NewProjectService creates a ProjectService. If c is nil, caching is disabled.
func NewProjectService(projects repo.ProjectRepo, groups repo.TaskGroupRepo, tasks repo.TaskRepo, agg *Aggregator, c *cache.Views) *ProjectService {
	return &ProjectService{projects: projects, groups: groups, tasks: tasks, agg: agg, cache: c}
}

// CreateProjectInput carries the create fields. A nil TaskGroupID triggers
// auto-provisioning of a group for the project.
type CreateProjectInput struct {
	Name        string
	Description string
	Logo        string
	TaskGroupID *int64
	StartDate   time.Time
	EndDate     time.Time
	Color       string
}

// UpdateProjectInput is a partial patch; nil means leave unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Logo        *string
	TaskGroupID *int64
	StartDate   *time.Time
	EndDate     *time.Time
	Color       *string
}

// ProjectView is a project enriched with its aggregated task count.
type ProjectView struct {
	dom.Project
	TaskCount int64
}

// ProjectDetail is a single-project read with its tasks: both tasks parented
// directly to the project and tasks in the project's own group.
type ProjectDetail struct {
	ProjectView
	Tasks []dom.Task
}

func (s *ProjectService) Create(ctx context.Context, ownerID int64, in CreateProjectInput) (dom.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return dom.Project{}, validationf("project name is required")
	}
	if in.StartDate.IsZero() {
		return dom.Project{}, validationf("start date is required")
	}
	if in.EndDate.IsZero() {
		return dom.Project{}, validationf("end date is required")
	}
	if !in.EndDate.After(in.StartDate) {
		return dom.Project{}, validationf("end date must be after start date")
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = dom.DefaultThemeColor
	}

	var groupID int64
	if in.TaskGroupID != nil {
		g, err := s.groups.GetByID(ctx, ownerID, *in.TaskGroupID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return dom.Project{}, validationf("task group not found")
			}
			return dom.Project{}, err
		}
		groupID = g.ID
	} else {
		g, err := s.provisionGroup(ctx, ownerID, name, in.Logo, color)
		if err != nil {
			return dom.Project{}, err
		}
		groupID = g.ID
	}

	p, err := s.projects.Create(ctx, dom.Project{
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Logo:        strings.TrimSpace(in.Logo),
		TaskGroupID: groupID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Color:       color,
	})
	if err != nil {
		return dom.Project{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return p, nil
}

// provisionGroup creates the project's default group so that every project
// references a valid group even when the client supplied none.
func (s *ProjectService) provisionGroup(ctx context.Context, ownerID int64, projectName, logo, color string) (dom.TaskGroup, error) {
	name := projectName
	if name == "" {
		name = dom.DefaultGroupName
	}
	icon := strings.TrimSpace(logo)
	if icon == "" {
		icon = dom.DefaultGroupIcon
	}
	return s.groups.Create(ctx, dom.TaskGroup{
		OwnerID: ownerID,
		Name:    name,
		Icon:    icon,
		Color:   color,
	})
}

func (s *ProjectService) Get(ctx context.Context, ownerID, id int64) (ProjectDetail, error) {
	p, err := s.projects.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProjectDetail{}, ErrNotFound
		}
		return ProjectDetail{}, err
	}
	direct, err := s.tasks.ListByParent(ctx, ownerID, dom.ProjectParent(p.ID))
	if err != nil {
		return ProjectDetail{}, err
	}
	grouped, err := s.tasks.ListByParent(ctx, ownerID, dom.TaskGroupParent(p.TaskGroupID))
	if err != nil {
		return ProjectDetail{}, err
	}
	tasks := append(direct, grouped...)
	return ProjectDetail{
		ProjectView: ProjectView{Project: p, TaskCount: int64(len(tasks))},
		Tasks:       tasks,
	}, nil
}

// List returns the user's projects, each with its aggregated task count.
func (s *ProjectService) List(ctx context.Context, ownerID int64) ([]ProjectView, error) {
	if s.cache != nil {
		key := "projectlist:" + strconv.FormatInt(ownerID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			var cached []ProjectView
			if ok, err := s.cache.Get(ctx, ownerID, "projectlist", &cached); err == nil && ok {
				return cached, nil
			}
			list, err := s.listWithCounts(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.Set(ctx, ownerID, "projectlist", list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]ProjectView), nil
	}
	return s.listWithCounts(ctx, ownerID)
}

func (s *ProjectService) listWithCounts(ctx context.Context, ownerID int64) ([]ProjectView, error) {
	projects, err := s.projects.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		n, err := s.agg.ProjectTaskCount(ctx, ownerID, p)
		if err != nil {
			return nil, err
		}
		views = append(views, ProjectView{Project: p, TaskCount: n})
	}
	return views, nil
}

func (s *ProjectService) Update(ctx context.Context, ownerID, id int64, in UpdateProjectInput) (dom.Project, error) {
	existing, err := s.projects.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Project{}, ErrNotFound
		}
		return dom.Project{}, err
	}
	patch := existing
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return dom.Project{}, validationf("project name cannot be empty")
		}
		patch.Name = name
	}
	if in.Description != nil {
		patch.Description = strings.TrimSpace(*in.Description)
	}
	if in.Logo != nil {
		patch.Logo = strings.TrimSpace(*in.Logo)
	}
	if in.Color != nil {
		patch.Color = strings.TrimSpace(*in.Color)
	}
	if in.StartDate != nil {
		patch.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		patch.EndDate = *in.EndDate
	}
	if !patch.EndDate.After(patch.StartDate) {
		return dom.Project{}, validationf("end date must be after start date")
	}
	if in.TaskGroupID != nil && *in.TaskGroupID != existing.TaskGroupID {
		// The reference is only re-validated when it changes.
		if _, err := s.groups.GetByID(ctx, ownerID, *in.TaskGroupID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return dom.Project{}, validationf("task group not found")
			}
			return dom.Project{}, err
		}
		patch.TaskGroupID = *in.TaskGroupID
	}
	p, err := s.projects.Update(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Project{}, ErrNotFound
		}
		return dom.Project{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return p, nil
}

// Delete refuses while any task is parented directly to the project, then
// removes the tasks living in the project's own group together with the
// project. Directly-attached tasks are first-class and must not vanish
// silently; tasks in the project's dedicated group have no existence
// outside it.
//
// The cascade and the project delete are two separate store calls with no
// wrapping transaction. A crash between them can leave the group tasks
// deleted but the project present; re-running the delete converges.
func (s *ProjectService) Delete(ctx context.Context, ownerID, id int64) error {
	p, err := s.projects.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	direct, err := s.tasks.CountByParent(ctx, ownerID, dom.ProjectParent(id))
	if err != nil {
		return err
	}
	if direct > 0 {
		return conflictf(direct, "cannot delete project: %d task(s) are attached to this project", direct)
	}
	if _, err := s.tasks.DeleteByParent(ctx, ownerID, dom.TaskGroupParent(p.TaskGroupID)); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, ownerID)
	return nil
}

func (s *ProjectService) invalidateCache(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, ownerID)
	}
}
