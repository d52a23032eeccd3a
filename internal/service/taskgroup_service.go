package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	dom "github.com/yokanm/task-management-app/internal/domain"
	"github.com/yokanm/task-management-app/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/yokanm/task-management-app/internal/cache"
)

// TaskGroupService owns the task group lifecycle and its delete guards.
type TaskGroupService struct {
	groups   repo.TaskGroupRepo
	projects repo.ProjectRepo
	tasks    repo.TaskRepo
	agg      *Aggregator
	cache    *cache.Views
	sf       singleflight.Group
}

// NewTaskGroupService creates a TaskGroupService. If c is nil, caching is disabled.
func NewTaskGroupService(groups repo.TaskGroupRepo, projects repo.ProjectRepo, tasks repo.TaskRepo, agg *Aggregator, c *cache.Views) *TaskGroupService {
	return &TaskGroupService{groups: groups, projects: projects, tasks: tasks, agg: agg, cache: c}
}

// CreateTaskGroupInput carries the create fields; Color defaults to the theme color.
type CreateTaskGroupInput struct {
	Name  string
	Icon  string
	Color string
}

// UpdateTaskGroupInput is a partial patch; nil means leave unchanged.
type UpdateTaskGroupInput struct {
	Name  *string
	Icon  *string
	Color *string
}

// TaskGroupView is a group enriched with its aggregated counters.
type TaskGroupView struct {
	dom.TaskGroup
	TaskCount            int64
	CompletionPercentage int
}

// TaskGroupDetail is a single-group read with its directly-parented tasks.
type TaskGroupDetail struct {
	TaskGroupView
	Tasks []dom.Task
}

func (s *TaskGroupService) Create(ctx context.Context, ownerID int64, in CreateTaskGroupInput) (dom.TaskGroup, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return dom.TaskGroup{}, validationf("task group name is required")
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = dom.DefaultThemeColor
	}
	g, err := s.groups.Create(ctx, dom.TaskGroup{
		OwnerID: ownerID,
		Name:    name,
		Icon:    strings.TrimSpace(in.Icon),
		Color:   color,
	})
	if err != nil {
		return dom.TaskGroup{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return g, nil
}

func (s *TaskGroupService) Get(ctx context.Context, ownerID, id int64) (TaskGroupDetail, error) {
	g, err := s.groups.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TaskGroupDetail{}, ErrNotFound
		}
		return TaskGroupDetail{}, err
	}
	st, err := s.agg.GroupStats(ctx, ownerID, g.ID)
	if err != nil {
		return TaskGroupDetail{}, err
	}
	tasks, err := s.tasks.ListByParent(ctx, ownerID, dom.TaskGroupParent(g.ID))
	if err != nil {
		return TaskGroupDetail{}, err
	}
	return TaskGroupDetail{
		TaskGroupView: TaskGroupView{TaskGroup: g, TaskCount: st.TaskCount, CompletionPercentage: st.CompletionPercentage},
		Tasks:         tasks,
	}, nil
}

// List returns the user's groups, each with task count and completion percentage.
func (s *TaskGroupService) List(ctx context.Context, ownerID int64) ([]TaskGroupView, error) {
	if s.cache != nil {
		key := "grouplist:" + strconv.FormatInt(ownerID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			var cached []TaskGroupView
			if ok, err := s.cache.Get(ctx, ownerID, "grouplist", &cached); err == nil && ok {
				return cached, nil
			}
			list, err := s.listWithStats(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.Set(ctx, ownerID, "grouplist", list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]TaskGroupView), nil
	}
	return s.listWithStats(ctx, ownerID)
}

func (s *TaskGroupService) listWithStats(ctx context.Context, ownerID int64) ([]TaskGroupView, error) {
	groups, err := s.groups.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views := make([]TaskGroupView, 0, len(groups))
	for _, g := range groups {
		st, err := s.agg.GroupStats(ctx, ownerID, g.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, TaskGroupView{TaskGroup: g, TaskCount: st.TaskCount, CompletionPercentage: st.CompletionPercentage})
	}
	return views, nil
}

func (s *TaskGroupService) Update(ctx context.Context, ownerID, id int64, in UpdateTaskGroupInput) (dom.TaskGroup, error) {
	existing, err := s.groups.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.TaskGroup{}, ErrNotFound
		}
		return dom.TaskGroup{}, err
	}
	patch := existing
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return dom.TaskGroup{}, validationf("task group name cannot be empty")
		}
		patch.Name = name
	}
	if in.Icon != nil {
		patch.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.Color != nil {
		patch.Color = strings.TrimSpace(*in.Color)
	}
	g, err := s.groups.Update(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.TaskGroup{}, ErrNotFound
		}
		return dom.TaskGroup{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return g, nil
}

// Delete refuses while any project references the group or any task is
// parented directly to it. Deleting requires the caller to reassign or
// remove dependents first; nothing is dropped silently.
func (s *TaskGroupService) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.groups.GetByID(ctx, ownerID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	projects, err := s.projects.CountByTaskGroup(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if projects > 0 {
		return conflictf(projects, "cannot delete task group: %d project(s) are using this group", projects)
	}
	tasks, err := s.tasks.CountByParent(ctx, ownerID, dom.TaskGroupParent(id))
	if err != nil {
		return err
	}
	if tasks > 0 {
		return conflictf(tasks, "cannot delete task group: %d task(s) belong to this group", tasks)
	}
	if err := s.groups.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, ownerID)
	return nil
}

func (s *TaskGroupService) invalidateCache(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, ownerID)
	}
}
