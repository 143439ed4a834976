package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestTaskIsOverdue(t *testing.T) {
	pastDue := testNow.AddDate(0, 0, -2)
	futureDue := testNow.AddDate(0, 0, 2)

	task := Task{Status: TaskStatusPending, DueDate: &pastDue}
	require.True(t, task.IsOverdue(testNow))

	task.DueDate = &futureDue
	require.False(t, task.IsOverdue(testNow))

	task.DueDate = nil
	require.False(t, task.IsOverdue(testNow))

	// Finished tasks are never overdue, however old the due date.
	task = Task{Status: TaskStatusCompleted, DueDate: &pastDue}
	require.False(t, task.IsOverdue(testNow))

	task.Status = TaskStatusCancelled
	require.False(t, task.IsOverdue(testNow))

	task.Status = TaskStatusArchived
	require.True(t, task.IsOverdue(testNow))
}

func TestTaskIsDueToday(t *testing.T) {
	sameDay := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	otherDay := time.Date(2026, 3, 16, 0, 1, 0, 0, time.UTC)

	task := Task{Status: TaskStatusPending, DueDate: &sameDay}
	require.True(t, task.IsDueToday(testNow))

	task.DueDate = &otherDay
	require.False(t, task.IsDueToday(testNow))

	task.DueDate = nil
	require.False(t, task.IsDueToday(testNow))

	// Status does not matter here, unlike IsOverdue.
	task = Task{Status: TaskStatusCompleted, DueDate: &sameDay}
	require.True(t, task.IsDueToday(testNow))
}

func TestTaskApplyStatus(t *testing.T) {
	task := Task{Status: TaskStatusPending}

	task.ApplyStatus(TaskStatusCompleted, testNow)
	require.Equal(t, TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	require.Equal(t, testNow, *task.CompletedAt)

	// Re-applying completed keeps the original stamp.
	later := testNow.Add(time.Hour)
	task.ApplyStatus(TaskStatusCompleted, later)
	require.Equal(t, testNow, *task.CompletedAt)

	// Leaving completed clears the stamp.
	task.ApplyStatus(TaskStatusInProgress, later)
	require.Equal(t, TaskStatusInProgress, task.Status)
	require.Nil(t, task.CompletedAt)

	// Transitions between non-completed statuses never touch it.
	task.ApplyStatus(TaskStatusArchived, later)
	require.Nil(t, task.CompletedAt)
}

func TestTaskStatusValid(t *testing.T) {
	for _, status := range TaskStatuses {
		require.True(t, status.Valid(), status)
	}
	require.False(t, TaskStatus("deleted").Valid())
	require.False(t, TaskStatus("").Valid())
}

func TestTaskPriorityValid(t *testing.T) {
	for _, priority := range TaskPriorities {
		require.True(t, priority.Valid(), priority)
	}
	require.False(t, TaskPriority("urgent").Valid())
}

func TestUpdateTaskInputEmpty(t *testing.T) {
	require.True(t, UpdateTaskInput{}.Empty())

	title := "new title"
	require.False(t, UpdateTaskInput{Title: &title}.Empty())
	require.False(t, UpdateTaskInput{DescriptionSet: true}.Empty())
	require.False(t, UpdateTaskInput{AssignedToSet: true}.Empty())
	require.False(t, UpdateTaskInput{DueDateSet: true}.Empty())

	status := TaskStatusArchived
	require.False(t, UpdateTaskInput{Status: &status}.Empty())
}

func TestStatusOptionsExcludeArchived(t *testing.T) {
	options := StatusOptions()

	require.Len(t, options, 4)
	for _, option := range options {
		require.NotEqual(t, string(TaskStatusArchived), option.Value)
	}
}

func TestPriorityOptions(t *testing.T) {
	options := PriorityOptions()

	require.Len(t, options, 3)
	require.Equal(t, "low", options[0].Value)
	require.Equal(t, "Low", options[0].Label)
}
