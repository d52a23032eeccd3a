package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "github.com/yokanm/task-management-app/internal/domain"
	"github.com/yokanm/task-management-app/internal/repo"
)

func newTaskService(tasks *mockTaskRepo, projects *mockProjectRepo, groups *mockTaskGroupRepo) *TaskService {
	return NewTaskService(tasks, projects, groups, nil)
}

func projectAt(id int64) *mockProjectRepo {
	return &mockProjectRepo{
		GetByIDFunc: func(_ context.Context, ownerID, pid int64) (dom.Project, error) {
			if pid == id {
				return dom.Project{ID: pid, OwnerID: ownerID}, nil
			}
			return dom.Project{}, errNoRows()
		},
	}
}

func TestTaskCreateDefaults(t *testing.T) {
	var created dom.Task
	tasks := &mockTaskRepo{
		CreateFunc: func(_ context.Context, task dom.Task) (dom.Task, error) {
			created = task
			task.ID = 1
			return task, nil
		},
	}
	svc := newTaskService(tasks, projectAt(3), &mockTaskGroupRepo{})

	_, err := svc.Create(context.Background(), 1, CreateTaskInput{
		Title:  "Write report",
		Parent: dom.ParentRef{ID: 3},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != dom.StatusToDo {
		t.Errorf("status = %q, want default %q", created.Status, dom.StatusToDo)
	}
	if created.Priority != dom.PriorityMedium {
		t.Errorf("priority = %q, want default %q", created.Priority, dom.PriorityMedium)
	}
	if created.Parent.Kind != dom.ParentProject {
		t.Errorf("parent kind = %q, want default %q", created.Parent.Kind, dom.ParentProject)
	}
	if created.IsCompleted || created.CompletedAt != nil {
		t.Errorf("new task marked completed: %+v", created)
	}
}

func TestTaskCreateCompletedStatusStampsCompletion(t *testing.T) {
	var created dom.Task
	tasks := &mockTaskRepo{
		CreateFunc: func(_ context.Context, task dom.Task) (dom.Task, error) {
			created = task
			return task, nil
		},
	}
	svc := newTaskService(tasks, projectAt(3), &mockTaskGroupRepo{})

	before := time.Now().UTC()
	_, err := svc.Create(context.Background(), 1, CreateTaskInput{
		Title:  "Already done",
		Status: dom.StatusCompleted,
		Parent: dom.ProjectParent(3),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.IsCompleted {
		t.Error("is_completed = false, want true")
	}
	if created.CompletedAt == nil {
		t.Fatal("completed_at is nil")
	}
	if created.CompletedAt.Before(before) || created.CompletedAt.After(time.Now().UTC()) {
		t.Errorf("completed_at = %v, outside call window", created.CompletedAt)
	}
}

func TestTaskCreateRejectsDanglingParent(t *testing.T) {
	svc := newTaskService(&mockTaskRepo{}, projectAt(3), &mockTaskGroupRepo{})

	cases := []struct {
		name   string
		parent dom.ParentRef
	}{
		{"missing project", dom.ProjectParent(99)},
		{"missing task group", dom.TaskGroupParent(99)},
		{"zero parent id", dom.ParentRef{Kind: dom.ParentProject}},
		{"bad parent kind", dom.ParentRef{Kind: "Folder", ID: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "x", Parent: tc.parent})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestTaskCreateValidation(t *testing.T) {
	svc := newTaskService(&mockTaskRepo{}, projectAt(3), &mockTaskGroupRepo{})
	parent := dom.ProjectParent(3)

	cases := []struct {
		name string
		in   CreateTaskInput
	}{
		{"empty title", CreateTaskInput{Title: "  ", Parent: parent}},
		{"bad status", CreateTaskInput{Title: "x", Status: "Done", Parent: parent}},
		{"bad priority", CreateTaskInput{Title: "x", Priority: "Urgent", Parent: parent}},
		{"bad due time", CreateTaskInput{Title: "x", DueTime: "25:00", Parent: parent}},
		{"empty tag", CreateTaskInput{Title: "x", Tags: []string{"ok", " "}, Parent: parent}},
		{"too many tags", CreateTaskInput{Title: "x", Tags: make([]string, maxTags+1), Parent: parent}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestTaskUpdateCompletingStampsTimestamp(t *testing.T) {
	existing := dom.Task{ID: 1, OwnerID: 1, Title: "x", Status: dom.StatusToDo, Parent: dom.ProjectParent(3)}
	var updated dom.Task
	tasks := &mockTaskRepo{
		GetByIDFunc: func(context.Context, int64, int64) (dom.Task, error) { return existing, nil },
		UpdateFunc: func(_ context.Context, _, _ int64, patch dom.Task) (dom.Task, error) {
			updated = patch
			return patch, nil
		},
	}
	svc := newTaskService(tasks, projectAt(3), &mockTaskGroupRepo{})

	before := time.Now().UTC()
	status := dom.StatusCompleted
	if _, err := svc.Update(context.Background(), 1, 1, UpdateTaskInput{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.IsCompleted {
		t.Error("is_completed = false, want true")
	}
	if updated.CompletedAt == nil {
		t.Fatal("completed_at is nil")
	}
	if updated.CompletedAt.Before(before) {
		t.Errorf("completed_at = %v, before the call", updated.CompletedAt)
	}
}

func TestTaskUpdateUncompletingClearsTimestamp(t *testing.T) {
	done := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	existing := dom.Task{
		ID: 1, OwnerID: 1, Title: "x",
		Status: dom.StatusCompleted, IsCompleted: true, CompletedAt: &done,
		Parent: dom.ProjectParent(3),
	}
	var updated dom.Task
	tasks := &mockTaskRepo{
		GetByIDFunc: func(context.Context, int64, int64) (dom.Task, error) { return existing, nil },
		UpdateFunc: func(_ context.Context, _, _ int64, patch dom.Task) (dom.Task, error) {
			updated = patch
			return patch, nil
		},
	}
	svc := newTaskService(tasks, projectAt(3), &mockTaskGroupRepo{})

	status := dom.StatusInProgress
	if _, err := svc.Update(context.Background(), 1, 1, UpdateTaskInput{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.IsCompleted {
		t.Error("is_completed = true, want false")
	}
	if updated.CompletedAt != nil {
		t.Errorf("completed_at = %v, want nil", updated.CompletedAt)
	}
}

func TestTaskUpdateDerivationOverridesExplicitPair(t *testing.T) {
	existing := dom.Task{ID: 1, OwnerID: 1, Title: "x", Status: dom.StatusToDo, Parent: dom.ProjectParent(3)}
	var updated dom.Task
	tasks := &mockTaskRepo{
		GetByIDFunc: func(context.Context, int64, int64) (dom.Task, error) { return existing, nil },
		UpdateFunc: func(_ context.Context, _, _ int64, patch dom.Task) (dom.Task, error) {
			updated = patch
			return patch, nil
		},
	}
	svc := newTaskService(tasks, projectAt(3), &mockTaskGroupRepo{})

	// Client claims the pair directly while also moving status; the
	// status-driven rule wins.
	status := dom.StatusCompleted
	isCompleted := false
	if _, err := svc.Update(context.Background(), 1, 1, UpdateTaskInput{Status: &status, IsCompleted: &isCompleted}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.IsCompleted {
		t.Error("derivation did not override the explicit is_completed")
	}
	if updated.CompletedAt == nil {
		t.Error("derivation did not stamp completed_at")
	}
}

func TestTaskUpdateCompletedStatusKeepsOriginalTimestamp(t *testing.T) {
	done := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	existing := dom.Task{
		ID: 1, OwnerID: 1, Title: "x",
		Status: dom.StatusCompleted, IsCompleted: true, CompletedAt: &done,
		Parent: dom.ProjectParent(3),
	}
	var updated dom.Task
	tasks := &mockTaskRepo{
		GetByIDFunc: func(context.Context, int64, int64) (dom.Task, error) { return existing, nil },
		UpdateFunc: func(_ context.Context, _, _ int64, patch dom.Task) (dom.Task, error) {
			updated = patch
			return patch, nil
		},
	}
	svc := newTaskService(tasks, projectAt(3), &mockTaskGroupRepo{})

	// Re-sending Completed on an already-completed task must not reset
	// the completion timestamp.
	status := dom.StatusCompleted
	if _, err := svc.Update(context.Background(), 1, 1, UpdateTaskInput{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(done) {
		t.Errorf("completed_at = %v, want original %v", updated.CompletedAt, done)
	}
}

func TestTaskUpdateExplicitPairWithoutStatus(t *testing.T) {
	existing := dom.Task{ID: 1, OwnerID: 1, Title: "x", Status: dom.StatusToDo, Parent: dom.ProjectParent(3)}
	var updated dom.Task
	tasks := &mockTaskRepo{
		GetByIDFunc: func(context.Context, int64, int64) (dom.Task, error) { return existing, nil },
		UpdateFunc: func(_ context.Context, _, _ int64, patch dom.Task) (dom.Task, error) {
			updated = patch
			return patch, nil
		},
	}
	svc := newTaskService(tasks, projectAt(3), &mockTaskGroupRepo{})

	isCompleted := true
	if _, err := svc.Update(context.Background(), 1, 1, UpdateTaskInput{IsCompleted: &isCompleted}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.IsCompleted {
		t.Error("explicit is_completed without a status change was dropped")
	}
}

func TestTaskUpdateReparentValidatesNewParent(t *testing.T) {
	existing := dom.Task{ID: 1, OwnerID: 1, Title: "x", Status: dom.StatusToDo, Parent: dom.ProjectParent(3)}
	tasks := &mockTaskRepo{
		GetByIDFunc: func(context.Context, int64, int64) (dom.Task, error) { return existing, nil },
	}
	svc := newTaskService(tasks, projectAt(3), &mockTaskGroupRepo{})

	parent := dom.TaskGroupParent(77)
	_, err := svc.Update(context.Background(), 1, 1, UpdateTaskInput{Parent: &parent})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestTaskDeleteNotFound(t *testing.T) {
	svc := newTaskService(&mockTaskRepo{}, &mockProjectRepo{}, &mockTaskGroupRepo{})

	if err := svc.Delete(context.Background(), 1, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTaskListByStatusRejectsUnknown(t *testing.T) {
	svc := newTaskService(&mockTaskRepo{}, &mockProjectRepo{}, &mockTaskGroupRepo{})

	_, err := svc.ListByStatus(context.Background(), 1, "Done")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestTaskStats(t *testing.T) {
	tasks := &mockTaskRepo{
		StatsFunc: func(context.Context, int64) (repo.TaskStats, error) {
			return repo.TaskStats{Total: 3, Completed: 1, InProgress: 1, Todo: 1}, nil
		},
	}
	svc := newTaskService(tasks, &mockProjectRepo{}, &mockTaskGroupRepo{})

	st, err := svc.Stats(context.Background(), 1)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.CompletionPercentage != 33 {
		t.Errorf("completion = %d%%, want 33%%", st.CompletionPercentage)
	}
}

func TestTaskStatsEmpty(t *testing.T) {
	svc := newTaskService(&mockTaskRepo{}, &mockProjectRepo{}, &mockTaskGroupRepo{})

	st, err := svc.Stats(context.Background(), 1)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.CompletionPercentage != 0 {
		t.Errorf("completion = %d%%, want 0%% for no tasks", st.CompletionPercentage)
	}
}

func TestListDueTodayUsesLocalDayWindow(t *testing.T) {
	var gotFrom, gotTo time.Time
	tasks := &mockTaskRepo{
		ListDueBetweenFunc: func(_ context.Context, _ int64, from, to time.Time) ([]dom.Task, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		},
	}
	svc := newTaskService(tasks, &mockProjectRepo{}, &mockTaskGroupRepo{})

	if _, err := svc.ListDueToday(context.Background(), 1); err != nil {
		t.Fatalf("ListDueToday: %v", err)
	}
	now := time.Now()
	if gotFrom.After(now) || gotTo.Before(now) {
		t.Errorf("window [%v, %v) does not contain now", gotFrom, gotTo)
	}
	if gotFrom.Hour() != 0 || gotFrom.Minute() != 0 || gotFrom.Second() != 0 {
		t.Errorf("window start %v is not midnight", gotFrom)
	}
}

func TestDayRange(t *testing.T) {
	at := time.Date(2026, 3, 15, 17, 42, 5, 0, time.UTC)
	from, to := dayRange(at)
	if want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Errorf("from = %v, want %v", from, want)
	}
	if want := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC); !to.Equal(want) {
		t.Errorf("to = %v, want %v", to, want)
	}
}

func TestNormalizeTags(t *testing.T) {
	got, err := normalizeTags([]string{" a ", "b"})
	if err != nil {
		t.Fatalf("normalizeTags: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("tags = %v, want [a b]", got)
	}
}
