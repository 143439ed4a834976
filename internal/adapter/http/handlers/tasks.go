package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/adapter/http/mapper"
	"taskboard/internal/adapter/http/middleware"
	"taskboard/internal/adapter/http/validation"
	"taskboard/internal/core/authz"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
	"taskboard/internal/core/query"
	"taskboard/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) Index(c *gin.Context) {
	tasks, meta, err := h.taskService.Index(c.Request.Context(), middleware.GetAuth(c), c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailListTasks, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskCollection(tasks, meta))
}

func (h *TaskHandler) Deleted(c *gin.Context) {
	tasks, meta, err := h.taskService.DeletedTasks(c.Request.Context(), middleware.GetAuth(c), c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailListTasks, "failed to list deleted tasks")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskCollection(tasks, meta))
}

func (h *TaskHandler) Show(c *gin.Context) {
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Show(c.Request.Context(), middleware.GetAuth(c), taskID)
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailGetTask, "failed to load task")
		return
	}

	item := mapper.ToTaskItem(task)
	c.JSON(http.StatusOK, dto.TaskResponse{Success: true, Message: "Task retrieved successfully", Data: &item})
}

func (h *TaskHandler) Store(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateValidationError(http.StatusUnprocessableEntity, apierrors.MsgValidationFailed, lang, validation.FromBindingError(err)),
		)
		return
	}

	in, fieldErrs := validation.BuildCreateTaskInput(req, time.Now())
	if !fieldErrs.Empty() {
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateValidationError(http.StatusUnprocessableEntity, apierrors.MsgValidationFailed, lang, fieldErrs),
		)
		return
	}

	task, err := h.taskService.Store(c.Request.Context(), middleware.GetAuth(c), in)
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailCreateTask, "failed to create task")
		return
	}

	item := mapper.ToTaskItem(task)
	c.JSON(http.StatusCreated, dto.TaskResponse{Success: true, Message: "Task created successfully", Data: &item})
}

func (h *TaskHandler) Update(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateValidationError(http.StatusUnprocessableEntity, apierrors.MsgValidationFailed, lang, validation.FromBindingError(err)),
		)
		return
	}
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateError(http.StatusUnprocessableEntity, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	in, fieldErrs := validation.BuildUpdateTaskInput(req, raw)
	if !fieldErrs.Empty() {
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateValidationError(http.StatusUnprocessableEntity, apierrors.MsgValidationFailed, lang, fieldErrs),
		)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), middleware.GetAuth(c), taskID, in)
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailUpdateTask, "failed to update task")
		return
	}

	item := mapper.ToTaskItem(task)
	c.JSON(http.StatusOK, dto.TaskResponse{Success: true, Message: "Task updated successfully", Data: &item})
}

func (h *TaskHandler) Destroy(c *gin.Context) {
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.Destroy(c.Request.Context(), middleware.GetAuth(c), taskID); err != nil {
		h.respondError(c, err, apierrors.MsgFailDeleteTask, "failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) Restore(c *gin.Context) {
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.Restore(c.Request.Context(), middleware.GetAuth(c), taskID); err != nil {
		h.respondError(c, err, apierrors.MsgFailRestoreTask, "failed to restore task")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) ForceDelete(c *gin.Context) {
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.ForceDelete(c.Request.Context(), middleware.GetAuth(c), taskID); err != nil {
		h.respondError(c, err, apierrors.MsgFailDeleteTask, "failed to force-delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) Archive(c *gin.Context) {
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.Archive(c.Request.Context(), middleware.GetAuth(c), taskID); err != nil {
		h.respondError(c, err, apierrors.MsgFailArchiveTask, "failed to archive task")
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{Success: true, Message: "Task archived successfully"})
}

func (h *TaskHandler) MarkCompleted(c *gin.Context) {
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.MarkCompleted(c.Request.Context(), middleware.GetAuth(c), taskID)
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailUpdateTask, "failed to mark task completed")
		return
	}

	item := mapper.ToTaskItem(task)
	c.JSON(http.StatusOK, dto.TaskResponse{Success: true, Message: "Task marked as completed", Data: &item})
}

func (h *TaskHandler) Assign(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateValidationError(http.StatusUnprocessableEntity, apierrors.MsgValidationFailed, lang, validation.FromBindingError(err)),
		)
		return
	}

	task, err := h.taskService.AssignTo(c.Request.Context(), middleware.GetAuth(c), taskID, req.UserID)
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailUpdateTask, "failed to assign task")
		return
	}

	item := mapper.ToTaskItem(task)
	c.JSON(http.StatusOK, dto.TaskResponse{Success: true, Message: "Task assigned successfully", Data: &item})
}

func (h *TaskHandler) UpdatePriority(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	var req dto.UpdatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateValidationError(http.StatusUnprocessableEntity, apierrors.MsgValidationFailed, lang, validation.FromBindingError(err)),
		)
		return
	}

	task, err := h.taskService.UpdatePriority(c.Request.Context(), middleware.GetAuth(c), taskID, domain.TaskPriority(req.Priority))
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailUpdateTask, "failed to update task priority")
		return
	}

	item := mapper.ToTaskItem(task)
	c.JSON(http.StatusOK, dto.TaskResponse{Success: true, Message: "Priority updated successfully", Data: &item})
}

func (h *TaskHandler) BulkDelete(c *gin.Context) {
	h.bulkAction(c, "Tasks deleted successfully", h.taskService.BulkDelete)
}

func (h *TaskHandler) BulkRestore(c *gin.Context) {
	h.bulkAction(c, "Tasks restored successfully", h.taskService.BulkRestore)
}

func (h *TaskHandler) BulkForceDelete(c *gin.Context) {
	h.bulkAction(c, "Tasks permanently deleted", h.taskService.BulkForceDelete)
}

func (h *TaskHandler) BulkArchive(c *gin.Context) {
	h.bulkAction(c, "Tasks archived successfully", h.taskService.BulkArchive)
}

func (h *TaskHandler) Export(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.ExportTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateValidationError(http.StatusUnprocessableEntity, apierrors.MsgValidationFailed, lang, validation.FromBindingError(err)),
		)
		return
	}

	selected := make([]uuid.UUID, 0, len(req.SelectedRows))
	for _, raw := range req.SelectedRows {
		// Binding already guaranteed well-formed UUIDs.
		selected = append(selected, uuid.MustParse(raw))
	}

	result, err := h.taskService.Export(c.Request.Context(), middleware.GetAuth(c), ports.ExportRequest{
		Format:      req.Format,
		SelectedIDs: selected,
		Filters:     req.Filters,
	})
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailExportTasks, "failed to export tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ExportResponse{
		Success: true,
		Message: "Export completed successfully",
		Data: dto.ExportData{
			Filename:    result.Filename,
			DownloadURL: result.DownloadURL,
			Format:      result.Format,
			ContentType: result.ContentType,
		},
	})
}

func (h *TaskHandler) Stats(c *gin.Context) {
	stats, err := h.taskService.Stats(c.Request.Context(), middleware.GetAuth(c))
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailStats, "failed to compute task stats")
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{Success: true, Data: mapper.ToTaskStats(stats)})
}

func (h *TaskHandler) Statuses(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OptionsResponse{Success: true, Data: mapper.ToOptionItems(h.taskService.Statuses())})
}

func (h *TaskHandler) Priorities(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OptionsResponse{Success: true, Data: mapper.ToOptionItems(h.taskService.Priorities())})
}

func (h *TaskHandler) bulkAction(
	c *gin.Context,
	successMessage string,
	action func(ctx context.Context, actx authz.Context, ids []uuid.UUID) ([]domain.BulkOutcome, error),
) {
	lang := middleware.GetLang(c)

	var req dto.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateValidationError(http.StatusUnprocessableEntity, apierrors.MsgValidationFailed, lang, validation.FromBindingError(err)),
		)
		return
	}

	ids := make([]uuid.UUID, 0, len(req.TaskIDs))
	for _, raw := range req.TaskIDs {
		ids = append(ids, uuid.MustParse(raw))
	}

	outcomes, err := action(c.Request.Context(), middleware.GetAuth(c), ids)
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailBulkAction, "failed bulk task action")
		return
	}

	c.JSON(http.StatusOK, dto.BulkActionResponse{
		Success: true,
		Message: successMessage,
		Results: mapper.ToBulkOutcomeItems(outcomes),
	})
}

// taskID parses the path parameter; a malformed id responds 400 and
// aborts the handler.
func (h *TaskHandler) taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, middleware.GetLang(c)),
		)
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto the API error taxonomy. Anything
// unrecognized is logged and reported as a 500 with failKey's message.
func (h *TaskHandler) respondError(c *gin.Context, err error, failKey, logMsg string) {
	lang := middleware.GetLang(c)

	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		c.JSON(
			http.StatusForbidden,
			apierrors.CreateError(http.StatusForbidden, apierrors.MsgForbidden, lang),
		)
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(
			http.StatusNotFound,
			apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
		)
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateError(http.StatusUnprocessableEntity, apierrors.MsgUserNotFound, lang),
		)
	case errors.Is(err, domain.ErrEmptyUpdate):
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateError(http.StatusUnprocessableEntity, apierrors.MsgInvalidTaskPayload, lang),
		)
	case query.IsInvalid(err):
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateErrorDetail(http.StatusBadRequest, apierrors.MsgInvalidFilter, lang, err.Error()),
		)
	default:
		zap.L().Error(logMsg, zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, failKey, lang),
		)
	}
}
