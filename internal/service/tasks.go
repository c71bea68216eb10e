package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/internal/model"
	"github.com/iwvelando/rehabdesk/internal/store"
	"go.uber.org/zap"
)

// TaskService manages task lists and tasks.
type TaskService struct {
	lists  *store.Collection[model.TaskList, *model.TaskList]
	tasks  *store.Collection[model.Task, *model.Task]
	logger *zap.Logger
}

// PopulatedTask is a task with its list expanded. List is nil when the list
// no longer exists.
type PopulatedTask struct {
	model.Task
	List *model.TaskList `json:"list"`
}

// CreateList adds a task list. Names must be unique.
func (s *TaskService) CreateList(ctx context.Context, l model.TaskList) (*model.TaskList, error) {
	const op = "service.CreateTaskList"
	l.Meta = model.Meta{}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := s.lists.Insert(ctx, &l); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.CodeValidation, "A task list named "+l.Name+" already exists", err)
		}
		return nil, storeError(s.logger, op, "Task list", err)
	}
	return &l, nil
}

// Lists returns every task list in creation order.
func (s *TaskService) Lists(ctx context.Context) ([]model.TaskList, error) {
	lists, err := s.lists.List(ctx, "")
	if err != nil {
		return nil, storeError(s.logger, "service.ListTaskLists", "Task list", err)
	}
	return lists, nil
}

// Counts returns the number of tasks on each list, keyed by list id.
func (s *TaskService) Counts(ctx context.Context) (map[string]int, error) {
	const op = "service.CountTasks"
	lists, err := s.Lists(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(lists))
	for _, l := range lists {
		n, err := s.tasks.Count(ctx, l.ID)
		if err != nil {
			return nil, storeError(s.logger, op, "Task", err)
		}
		counts[l.ID] = n
	}
	return counts, nil
}

// DeleteList removes a task list. Its tasks are kept.
func (s *TaskService) DeleteList(ctx context.Context, id string) error {
	if err := s.lists.Delete(ctx, id); err != nil {
		return storeError(s.logger, "service.DeleteTaskList", "Task list", err)
	}
	return nil
}

// CreateTask adds a task to an existing list.
func (s *TaskService) CreateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	const op = "service.CreateTask"
	if t.List == "" {
		return nil, apperr.Validation("Task list is required")
	}
	if err := s.requireList(ctx, op, t.List); err != nil {
		return nil, err
	}

	t.Meta = model.Meta{}
	if err := t.Normalize(); err != nil {
		return nil, err
	}
	if err := s.tasks.Insert(ctx, &t); err != nil {
		return nil, storeError(s.logger, op, "Task", err)
	}
	return &t, nil
}

// Tasks returns the tasks of listID, or every task when listID is empty, in
// creation order with their lists expanded.
func (s *TaskService) Tasks(ctx context.Context, listID string) ([]PopulatedTask, error) {
	const op = "service.ListTasks"
	tasks, err := s.tasks.List(ctx, listID)
	if err != nil {
		return nil, storeError(s.logger, op, "Task", err)
	}
	lists, err := s.Lists(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.TaskList, len(lists))
	for i := range lists {
		byID[lists[i].ID] = &lists[i]
	}

	out := make([]PopulatedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, PopulatedTask{Task: t, List: byID[t.List]})
	}
	return out, nil
}

// UpdateTask merges the JSON object body into a task.
func (s *TaskService) UpdateTask(ctx context.Context, id string, body []byte) (*model.Task, error) {
	const op = "service.UpdateTask"
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, op, "Task", err)
	}
	meta, list := t.Meta, t.List
	if err := json.Unmarshal(body, t); err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, "invalid task: "+err.Error(), err)
	}
	t.Meta = meta
	if t.List != list {
		if err := s.requireList(ctx, op, t.List); err != nil {
			return nil, err
		}
	}
	if err := t.Normalize(); err != nil {
		return nil, err
	}
	if err := s.tasks.Replace(ctx, t); err != nil {
		return nil, storeError(s.logger, op, "Task", err)
	}
	return t, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return storeError(s.logger, "service.DeleteTask", "Task", err)
	}
	return nil
}

func (s *TaskService) requireList(ctx context.Context, op, id string) error {
	if id == "" {
		return apperr.Validation("Task list is required")
	}
	if _, err := s.lists.Get(ctx, id); err != nil {
		return storeError(s.logger, op, "Task list", err)
	}
	return nil
}
