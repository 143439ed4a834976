package domain

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusArchived   TaskStatus = "archived"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
	TaskStatusArchived,
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled, TaskStatusArchived:
		return true
	}
	return false
}

func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusPending:
		return "Pending"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusCancelled:
		return "Cancelled"
	case TaskStatusArchived:
		return "Archived"
	}
	return "Unknown"
}

func (s TaskStatus) Color() string {
	switch s {
	case TaskStatusPending:
		return "gray"
	case TaskStatusInProgress:
		return "blue"
	case TaskStatusCompleted:
		return "green"
	case TaskStatusCancelled:
		return "red"
	case TaskStatusArchived:
		return "yellow"
	}
	return "gray"
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
}

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

func (p TaskPriority) Label() string {
	switch p {
	case TaskPriorityLow:
		return "Low"
	case TaskPriorityMedium:
		return "Medium"
	case TaskPriorityHigh:
		return "High"
	}
	return "Unknown"
}

func (p TaskPriority) Color() string {
	switch p {
	case TaskPriorityLow:
		return "green"
	case TaskPriorityMedium:
		return "yellow"
	case TaskPriorityHigh:
		return "red"
	}
	return "gray"
}

type Task struct {
	ID          uuid.UUID
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	AssignedTo  *uint64
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedBy   uint64
	UpdatedBy   uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time

	AssignedUser  *User
	CreatedByUser *User
	UpdatedByUser *User
}

// IsOverdue reports whether the task's due date has passed while the task
// is still actionable. Completed and cancelled tasks are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled {
		return false
	}
	return t.DueDate.Before(now)
}

// IsDueToday reports whether the due date falls on the current calendar
// day. Unlike IsOverdue it carries no status condition.
func (t *Task) IsDueToday(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// ApplyStatus sets the status and keeps CompletedAt consistent with it:
// entering completed stamps the time, leaving completed clears it. Any
// status may transition to any other.
func (t *Task) ApplyStatus(status TaskStatus, now time.Time) {
	entering := status == TaskStatusCompleted && t.Status != TaskStatusCompleted
	leaving := status != TaskStatusCompleted && t.Status == TaskStatusCompleted

	t.Status = status
	if entering {
		completedAt := now
		t.CompletedAt = &completedAt
	}
	if leaving {
		t.CompletedAt = nil
	}
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	AssignedTo  *uint64
	DueDate     *time.Time
	CreatedBy   uint64
}

// UpdateTaskInput carries a partial update. Nullable fields pair a value
// with a Set flag so "set to null" and "leave untouched" stay distinct.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Status         *TaskStatus
	Priority       *TaskPriority
	AssignedTo     *uint64
	AssignedToSet  bool
	DueDate        *time.Time
	DueDateSet     bool
}

func (in UpdateTaskInput) Empty() bool {
	return in.Title == nil &&
		!in.DescriptionSet &&
		in.Status == nil &&
		in.Priority == nil &&
		!in.AssignedToSet &&
		!in.DueDateSet
}
