package mapper

import (
	"time"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/query"
)

const displayLayout = "02/01/2006 15:04"

func ToTaskCollection(tasks []domain.Task, meta query.Meta) dto.TaskCollection {
	return dto.TaskCollection{Data: ToTaskItems(tasks), Meta: meta}
}

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for i := range tasks {
		items = append(items, ToTaskItem(&tasks[i]))
	}
	return items
}

func ToTaskItem(task *domain.Task) dto.TaskItem {
	now := time.Now()

	item := dto.TaskItem{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status: dto.EnumValue{
			Value: string(task.Status),
			Label: task.Status.Label(),
			Color: task.Status.Color(),
		},
		Priority: dto.EnumValue{
			Value: string(task.Priority),
			Label: task.Priority.Label(),
			Color: task.Priority.Color(),
		},
		AssignedTo:         task.AssignedTo,
		AssignedUserName:   "Unassigned",
		CreatedAt:          task.CreatedAt.Format(time.RFC3339),
		CreatedAtFormatted: task.CreatedAt.Format(displayLayout),
		UpdatedAt:          task.UpdatedAt.Format(time.RFC3339),
		UpdatedAtFormatted: task.UpdatedAt.Format(displayLayout),
		IsOverdue:          task.IsOverdue(now),
		IsDueToday:         task.IsDueToday(now),
	}

	if task.AssignedUser != nil {
		item.AssignedUserName = task.AssignedUser.Name
	}

	item.DueDate, item.DueDateFormatted = optionalTime(task.DueDate)
	item.CompletedAt, item.CompletedAtFormatted = optionalTime(task.CompletedAt)
	item.DeletedAt, item.DeletedAtFormatted = optionalTime(task.DeletedAt)

	item.CreatedByUser = toUserItem(task.CreatedByUser)
	item.UpdatedByUser = toUserItem(task.UpdatedByUser)

	return item
}

func ToBulkOutcomeItems(outcomes []domain.BulkOutcome) []dto.BulkOutcomeItem {
	items := make([]dto.BulkOutcomeItem, 0, len(outcomes))
	for _, outcome := range outcomes {
		status := "ok"
		if !outcome.OK {
			status = "failed"
		}
		items = append(items, dto.BulkOutcomeItem{
			TaskID: outcome.TaskID.String(),
			Status: status,
			Error:  outcome.Error,
		})
	}
	return items
}

func ToTaskStats(stats *domain.TaskStats) dto.TaskStats {
	return dto.TaskStats{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
		Cancelled:  stats.Cancelled,
		Overdue:    stats.Overdue,
		DueToday:   stats.DueToday,
		Deleted:    stats.Deleted,
	}
}

func ToOptionItems(options []domain.Option) []dto.OptionItem {
	items := make([]dto.OptionItem, 0, len(options))
	for _, option := range options {
		items = append(items, dto.OptionItem{ID: option.Value, DisplayName: option.Label})
	}
	return items
}

func optionalTime(t *time.Time) (*string, *string) {
	if t == nil {
		return nil, nil
	}
	iso := t.Format(time.RFC3339)
	display := t.Format(displayLayout)
	return &iso, &display
}

func toUserItem(user *domain.User) *dto.UserItem {
	if user == nil {
		return nil
	}
	return &dto.UserItem{ID: user.ID, Name: user.Name, Email: user.Email}
}
