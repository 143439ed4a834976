package export

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/core/domain"
)

// jsonTask mirrors the persisted column names, not the API's decorated
// representation.
type jsonTask struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  *uint64    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedBy   uint64     `json:"created_by"`
	UpdatedBy   uint64     `json:"updated_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

type JSONSerializer struct{}

func (JSONSerializer) Extension() string   { return "json" }
func (JSONSerializer) ContentType() string { return "application/json" }

func (JSONSerializer) Serialize(tasks []domain.Task) ([]byte, error) {
	out := make([]jsonTask, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, jsonTask{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Status:      string(task.Status),
			Priority:    string(task.Priority),
			AssignedTo:  task.AssignedTo,
			DueDate:     task.DueDate,
			CompletedAt: task.CompletedAt,
			CreatedBy:   task.CreatedBy,
			UpdatedBy:   task.UpdatedBy,
			CreatedAt:   task.CreatedAt,
			UpdatedAt:   task.UpdatedAt,
			DeletedAt:   task.DeletedAt,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
