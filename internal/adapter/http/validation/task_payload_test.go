package validation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/core/domain"
)

var payloadNow = time.Date(2026, 3, 15, 8, 45, 30, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestBuildCreateTaskInput(t *testing.T) {
	req := dto.CreateTaskRequest{
		Title:    "  Ship the release  ",
		Status:   strPtr("in_progress"),
		Priority: strPtr("high"),
		DueDate:  strPtr("2026-03-20"),
	}

	in, fields := BuildCreateTaskInput(req, payloadNow)
	require.Nil(t, fields)
	require.Equal(t, "Ship the release", in.Title)
	require.Equal(t, domain.TaskStatusInProgress, in.Status)
	require.Equal(t, domain.TaskPriorityHigh, in.Priority)
	require.Equal(t, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), *in.DueDate)
}

func TestBuildCreateTaskInput_RejectsUnknownEnums(t *testing.T) {
	req := dto.CreateTaskRequest{
		Title:    "Ship the release",
		Status:   strPtr("parked"),
		Priority: strPtr("urgent"),
	}

	_, fields := BuildCreateTaskInput(req, payloadNow)
	require.Contains(t, fields, "status")
	require.Contains(t, fields, "priority")
}

func TestBuildCreateTaskInput_RejectsPastDueDate(t *testing.T) {
	req := dto.CreateTaskRequest{
		Title:   "Ship the release",
		DueDate: strPtr("2026-03-14"),
	}

	_, fields := BuildCreateTaskInput(req, payloadNow)
	require.Contains(t, fields, "due_date")
}

func TestBuildUpdateTaskInput_NullClearsDescription(t *testing.T) {
	raw := map[string]json.RawMessage{
		"description": json.RawMessage("null"),
	}

	in, fields := BuildUpdateTaskInput(dto.UpdateTaskRequest{}, raw)
	require.Nil(t, fields)
	require.True(t, in.DescriptionSet)
	require.Nil(t, in.Description)
	require.False(t, in.DueDateSet)
}

func TestBuildUpdateTaskInput_RejectsUnknownEnums(t *testing.T) {
	req := dto.UpdateTaskRequest{
		Status:   strPtr("deleted"),
		Priority: strPtr("critical"),
	}

	_, fields := BuildUpdateTaskInput(req, map[string]json.RawMessage{})
	require.Contains(t, fields, "status")
	require.Contains(t, fields, "priority")
}
