package dto

import "taskboard/internal/core/query"

// EnumValue is the decorated representation of status and priority.
type EnumValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

type UserItem struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TaskItem struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          *string   `json:"description"`
	Status               EnumValue `json:"status"`
	Priority             EnumValue `json:"priority"`
	AssignedTo           *uint64   `json:"assigned_to"`
	AssignedUserName     string    `json:"assigned_user_name"`
	DueDate              *string   `json:"due_date"`
	DueDateFormatted     *string   `json:"due_date_formatted"`
	CompletedAt          *string   `json:"completed_at"`
	CompletedAtFormatted *string   `json:"completed_at_formatted"`
	CreatedAt            string    `json:"created_at"`
	CreatedAtFormatted   string    `json:"created_at_formatted"`
	UpdatedAt            string    `json:"updated_at"`
	UpdatedAtFormatted   string    `json:"updated_at_formatted"`
	DeletedAt            *string   `json:"deleted_at"`
	DeletedAtFormatted   *string   `json:"deleted_at_formatted"`
	IsOverdue            bool      `json:"is_overdue"`
	IsDueToday           bool      `json:"is_due_today"`
	CreatedByUser        *UserItem `json:"created_by_user,omitempty"`
	UpdatedByUser        *UserItem `json:"updated_by_user,omitempty"`
}

type TaskCollection struct {
	Data []TaskItem `json:"data"`
	Meta query.Meta `json:"meta"`
}

type TaskResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    *TaskItem `json:"data,omitempty"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssignedTo  *uint64 `json:"assigned_to" binding:"omitempty,gt=0"`
	DueDate     *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled archived"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssignedTo  *uint64 `json:"assigned_to" binding:"omitempty,gt=0"`
	DueDate     *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

type AssignTaskRequest struct {
	UserID uint64 `json:"user_id" binding:"required,gt=0"`
}

type UpdatePriorityRequest struct {
	Priority string `json:"priority" binding:"required,oneof=low medium high"`
}

type BulkActionRequest struct {
	TaskIDs []string `json:"task_ids" binding:"required,min=1,dive,uuid"`
}

type BulkOutcomeItem struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type BulkActionResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Results []BulkOutcomeItem `json:"results"`
}

type ExportTaskRequest struct {
	Format       string         `json:"format" binding:"omitempty,oneof=csv xlsx pdf json"`
	SelectedRows []string       `json:"selected_rows" binding:"omitempty,dive,uuid"`
	Filters      map[string]any `json:"filters"`
}

type ExportResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    ExportData `json:"data"`
}

type ExportData struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
}

type StatsResponse struct {
	Success bool      `json:"success"`
	Data    TaskStats `json:"data"`
}

type TaskStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Overdue    int64 `json:"overdue"`
	DueToday   int64 `json:"due_today"`
	Deleted    int64 `json:"deleted"`
}

type OptionItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type OptionsResponse struct {
	Success bool         `json:"success"`
	Data    []OptionItem `json:"data"`
}
