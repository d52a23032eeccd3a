package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	dom "github.com/yokanm/task-management-app/internal/domain"
	"github.com/yokanm/task-management-app/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/yokanm/task-management-app/internal/cache"
)

const maxTags = 10

var dueTimeRe = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// TaskService owns the task lifecycle under a polymorphic parent and the
// per-user read queries.
type TaskService struct {
	tasks    repo.TaskRepo
	projects repo.ProjectRepo
	groups   repo.TaskGroupRepo
	cache    *cache.Views
	sf       singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(tasks repo.TaskRepo, projects repo.ProjectRepo, groups repo.TaskGroupRepo, c *cache.Views) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, groups: groups, cache: c}
}

// CreateTaskInput carries the create fields. Parent.Kind may be empty, in
// which case it defaults to Project (source-compatible behavior; a group ID
// sent without a kind will be treated as a project reference).
type CreateTaskInput struct {
	Title       string
	Description string
	Status      dom.Status
	Priority    dom.Priority
	DueDate     *time.Time
	DueTime     string
	Parent      dom.ParentRef
	Tags        []string
}

// UpdateTaskInput is a partial patch; nil means leave unchanged.
// IsCompleted and CompletedAt apply only when Status is not part of the
// patch; otherwise the derivation rule overrides them.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *dom.Status
	Priority    *dom.Priority
	DueDate     *time.Time
	DueTime     *string
	Parent      *dom.ParentRef
	Tags        []string
	IsCompleted *bool
	CompletedAt *time.Time
}

// TaskStatsView is the per-user stats payload.
type TaskStatsView struct {
	Total                int64
	Completed            int64
	InProgress           int64
	Todo                 int64
	CompletionPercentage int
}

func (s *TaskService) Create(ctx context.Context, ownerID int64, in CreateTaskInput) (dom.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return dom.Task{}, validationf("task title is required")
	}
	status := in.Status
	if status == "" {
		status = dom.StatusToDo
	}
	if !status.Valid() {
		return dom.Task{}, validationf("status must be one of: To do, In Progress, Completed")
	}
	priority := in.Priority
	if priority == "" {
		priority = dom.PriorityMedium
	}
	if !priority.Valid() {
		return dom.Task{}, validationf("priority must be one of: Low, Medium, High")
	}
	dueTime := strings.TrimSpace(in.DueTime)
	if dueTime != "" && !dueTimeRe.MatchString(dueTime) {
		return dom.Task{}, validationf("due time must be in HH:MM format")
	}
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return dom.Task{}, err
	}

	parent := in.Parent
	if parent.Kind == "" {
		parent.Kind = dom.ParentProject
	}
	if err := s.checkParent(ctx, ownerID, parent); err != nil {
		return dom.Task{}, err
	}

	completed := status == dom.StatusCompleted
	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}

	t, err := s.tasks.Create(ctx, dom.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		Priority:    priority,
		DueDate:     in.DueDate,
		DueTime:     dueTime,
		Parent:      parent,
		Tags:        tags,
		IsCompleted: completed,
		CompletedAt: completedAt,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

func (s *TaskService) GetByID(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	t, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// Update applies the patch and enforces the completion derivation: setting
// status to Completed on a not-yet-completed task forces IsCompleted and a
// fresh CompletedAt; setting any other status on a completed task clears
// both. Whatever the client put in the patch cannot make the pair drift.
func (s *TaskService) Update(ctx context.Context, ownerID, id int64, in UpdateTaskInput) (dom.Task, error) {
	existing, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	patch := existing
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return dom.Task{}, validationf("task title cannot be empty")
		}
		patch.Title = title
	}
	if in.Description != nil {
		patch.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return dom.Task{}, validationf("status must be one of: To do, In Progress, Completed")
		}
		patch.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return dom.Task{}, validationf("priority must be one of: Low, Medium, High")
		}
		patch.Priority = *in.Priority
	}
	if in.DueDate != nil {
		patch.DueDate = in.DueDate
	}
	if in.DueTime != nil {
		dueTime := strings.TrimSpace(*in.DueTime)
		if dueTime != "" && !dueTimeRe.MatchString(dueTime) {
			return dom.Task{}, validationf("due time must be in HH:MM format")
		}
		patch.DueTime = dueTime
	}
	if in.Tags != nil {
		tags, err := normalizeTags(in.Tags)
		if err != nil {
			return dom.Task{}, err
		}
		patch.Tags = tags
	}
	if in.Parent != nil {
		parent := *in.Parent
		if parent.Kind == "" {
			parent.Kind = dom.ParentProject
		}
		if err := s.checkParent(ctx, ownerID, parent); err != nil {
			return dom.Task{}, err
		}
		patch.Parent = parent
	}

	if in.IsCompleted != nil {
		patch.IsCompleted = *in.IsCompleted
	}
	if in.CompletedAt != nil {
		patch.CompletedAt = in.CompletedAt
	}
	if in.Status != nil {
		switch {
		case *in.Status == dom.StatusCompleted && !existing.IsCompleted:
			now := time.Now().UTC()
			patch.IsCompleted = true
			patch.CompletedAt = &now
		case *in.Status != dom.StatusCompleted && existing.IsCompleted:
			patch.IsCompleted = false
			patch.CompletedAt = nil
		}
	}

	t, err := s.tasks.Update(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

// Delete is unconditional for the owner; tasks have no dependents.
func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.tasks.GetByID(ctx, ownerID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := s.tasks.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, ownerID)
	return nil
}

func (s *TaskService) List(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	if s.cache != nil {
		key := "tasklist:" + strconv.FormatInt(ownerID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			var cached []dom.Task
			if ok, err := s.cache.Get(ctx, ownerID, "tasklist", &cached); err == nil && ok {
				return cached, nil
			}
			list, err := s.tasks.List(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.Set(ctx, ownerID, "tasklist", list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.tasks.List(ctx, ownerID)
}

// ListDueToday returns tasks due within the local day; tasks without a due
// date are excluded by the range filter.
func (s *TaskService) ListDueToday(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	from, to := dayRange(time.Now())
	return s.tasks.ListDueBetween(ctx, ownerID, from, to)
}

func (s *TaskService) ListByStatus(ctx context.Context, ownerID int64, status dom.Status) ([]dom.Task, error) {
	if !status.Valid() {
		return nil, validationf("status must be one of: To do, In Progress, Completed")
	}
	return s.tasks.ListByStatus(ctx, ownerID, status)
}

func (s *TaskService) Stats(ctx context.Context, ownerID int64) (TaskStatsView, error) {
	st, err := s.tasks.Stats(ctx, ownerID)
	if err != nil {
		return TaskStatsView{}, err
	}
	return TaskStatsView{
		Total:                st.Total,
		Completed:            st.Completed,
		InProgress:           st.InProgress,
		Todo:                 st.Todo,
		CompletionPercentage: completionPercentage(st.Completed, st.Total),
	}, nil
}

// checkParent verifies the referenced parent exists and is owned by the
// caller. A dangling or foreign reference is a validation failure, not a
// not-found: the task operation itself addressed a valid entity.
func (s *TaskService) checkParent(ctx context.Context, ownerID int64, parent dom.ParentRef) error {
	if parent.ID <= 0 {
		return validationf("parent id is required")
	}
	switch parent.Kind {
	case dom.ParentProject:
		if _, err := s.projects.GetByID(ctx, ownerID, parent.ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return validationf("parent project not found")
			}
			return err
		}
	case dom.ParentTaskGroup:
		if _, err := s.groups.GetByID(ctx, ownerID, parent.ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return validationf("parent task group not found")
			}
			return err
		}
	default:
		return validationf("parent type must be either Project or TaskGroup")
	}
	return nil
}

// dayRange returns [start of day, start of next day) in t's location.
func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func normalizeTags(tags []string) ([]string, error) {
	if len(tags) > maxTags {
		return nil, validationf("maximum %d tags allowed", maxTags)
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return nil, validationf("tag cannot be empty")
		}
		out = append(out, tag)
	}
	return out, nil
}

func (s *TaskService) invalidateCache(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, ownerID)
	}
}
