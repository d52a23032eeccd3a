package service

import (
	"context"
	"math"

	dom "github.com/yokanm/task-management-app/internal/domain"
	"github.com/yokanm/task-management-app/internal/repo"
)

// Aggregator computes read-side task counts and completion percentages
// across the project/group hierarchy. It never mutates and keeps no state;
// counts are plain scans against the store.
type Aggregator struct {
	tasks repo.TaskRepo
}

// NewAggregator returns a new Aggregator.
func NewAggregator(tasks repo.TaskRepo) *Aggregator {
	return &Aggregator{tasks: tasks}
}

// ProjectTaskCount counts the tasks a project displays: tasks parented
// directly to the project plus tasks in the project's own task group. The
// scope matches what a project delete removes or refuses to remove.
func (a *Aggregator) ProjectTaskCount(ctx context.Context, ownerID int64, p dom.Project) (int64, error) {
	direct, err := a.tasks.CountByParent(ctx, ownerID, dom.ProjectParent(p.ID))
	if err != nil {
		return 0, err
	}
	grouped, err := a.tasks.CountByParent(ctx, ownerID, dom.TaskGroupParent(p.TaskGroupID))
	if err != nil {
		return 0, err
	}
	return direct + grouped, nil
}

// GroupStats are the per-group counters shown on group reads.
type GroupStats struct {
	TaskCount            int64
	CompletionPercentage int
}

// GroupStats counts only tasks parented directly to the group. A group does
// not see tasks of projects that merely reference it.
func (a *Aggregator) GroupStats(ctx context.Context, ownerID, groupID int64) (GroupStats, error) {
	parent := dom.TaskGroupParent(groupID)
	total, err := a.tasks.CountByParent(ctx, ownerID, parent)
	if err != nil {
		return GroupStats{}, err
	}
	completed, err := a.tasks.CountCompletedByParent(ctx, ownerID, parent)
	if err != nil {
		return GroupStats{}, err
	}
	return GroupStats{
		TaskCount:            total,
		CompletionPercentage: completionPercentage(completed, total),
	}, nil
}

// completionPercentage is round(completed/total*100), 0 when total is 0.
func completionPercentage(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
