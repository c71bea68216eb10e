package model

import (
	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/pkg/validation"
)

// Task priorities.
const (
	PriorityUrgent = "Urgent"
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
	PriorityNone   = "None"
)

// Task statuses.
const (
	StatusActive   = "active"
	StatusComplete = "complete"
)

// TaskList groups tasks. Names are unique.
type TaskList struct {
	Meta
	Name      string `json:"name"`
	CreatedBy string `json:"createdBy,omitempty"`
}

// UniqueKey makes the store reject a second list with the same name.
func (l *TaskList) UniqueKey() string { return l.Name }

// Validate checks required fields.
func (l TaskList) Validate() error {
	return requireFields(validation.Required("name", l.Name))
}

// Task is a to-do item on a task list.
type Task struct {
	Meta
	Name       string `json:"name"`
	DueDate    string `json:"dueDate,omitempty"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assignedTo,omitempty"`
	Status     string `json:"status"`
	Notes      string `json:"notes,omitempty"`
	List       string `json:"list"`
}

// OwnerID scopes tasks to their list.
func (t *Task) OwnerID() string { return t.List }

// Normalize fills defaults and validates the task.
func (t *Task) Normalize() error {
	if t.Priority == "" {
		t.Priority = PriorityNone
	}
	if t.Status == "" {
		t.Status = StatusActive
	}
	if err := requireFields(
		validation.Required("name", t.Name),
		validation.Required("list", t.List),
	); err != nil {
		return err
	}
	if err := validation.OneOf("priority", t.Priority, false,
		PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone); err != nil {
		return apperr.Wrap(apperr.CodeValidation, err.Error(), err)
	}
	if err := validation.OneOf("status", t.Status, false, StatusActive, StatusComplete); err != nil {
		return apperr.Wrap(apperr.CodeValidation, err.Error(), err)
	}
	return nil
}
