package service

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/app/export"
	"taskboard/internal/core/authz"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
	"taskboard/internal/core/query"
)

// allIncludes hydrates every user relation; mutation responses return the
// fresh task with all three attached, as the list endpoints can.
var allIncludes = []string{"assignedUser", "createdByUser", "updatedByUser"}

var indexSchema = query.Schema{
	Filters: []query.AllowedFilter{
		query.Exact("status"),
		query.Exact("priority"),
		query.Exact("assigned_to"),
		query.Scoped("overdue"),
		query.Scoped("due_today"),
		query.Scoped("due_soon"),
		query.Search("search", "title", "description", "assigned_user.name", "assigned_user.email"),
		query.Search("assigned_user", "assigned_user.name", "assigned_user.email"),
		query.DateRange("due_date"),
		query.DateRange("created_at"),
	},
	Sorts:       []string{"id", "title", "status", "priority", "due_date", "created_at", "updated_at"},
	Includes:    allIncludes,
	DefaultSort: "-created_at",
}

var deletedSchema = query.Schema{
	Filters: []query.AllowedFilter{
		query.Exact("status"),
		query.Exact("priority"),
		query.Search("search", "title", "description"),
	},
	Sorts:       []string{"id", "title", "status", "priority", "deleted_at"},
	Includes:    allIncludes,
	DefaultSort: "-deleted_at",
}

var exportSchema = query.Schema{
	Filters: []query.AllowedFilter{
		query.Exact("status"),
		query.Exact("priority"),
		query.Exact("assigned_to"),
		query.Scoped("overdue"),
		query.Scoped("due_today"),
		query.Search("search", "title", "description"),
	},
	Sorts:       []string{"id", "title", "status", "priority", "due_date", "created_at"},
	Includes:    allIncludes,
	DefaultSort: "-created_at",
}

type TasksService struct {
	tasks ports.TaskRepository
	users ports.UserRepository
	files *export.Store
	now   func() time.Time
}

var _ ports.TaskService = (*TasksService)(nil)

func NewTasksService(tasks ports.TaskRepository, users ports.UserRepository, files *export.Store) *TasksService {
	return &TasksService{tasks: tasks, users: users, files: files, now: time.Now}
}

func (s *TasksService) Index(ctx context.Context, actx authz.Context, params url.Values) ([]domain.Task, query.Meta, error) {
	if !actx.Can(authz.PermTasksRead) {
		return nil, query.Meta{}, domain.ErrPermissionDenied
	}

	c, err := indexSchema.Parse(params)
	if err != nil {
		return nil, query.Meta{}, err
	}
	c.Page = query.ParsePage(params, query.DefaultTaskPageSize)

	tasks, total, err := s.tasks.List(ctx, c)
	if err != nil {
		return nil, query.Meta{}, err
	}
	return tasks, query.NewMeta(c.Page, total), nil
}

func (s *TasksService) DeletedTasks(ctx context.Context, actx authz.Context, params url.Values) ([]domain.Task, query.Meta, error) {
	if !actx.Can(authz.PermTasksRead) {
		return nil, query.Meta{}, domain.ErrPermissionDenied
	}

	c, err := deletedSchema.Parse(params)
	if err != nil {
		return nil, query.Meta{}, err
	}
	c.Trash = query.TrashOnly
	c.Page = query.ParsePage(params, query.DefaultTaskPageSize)

	tasks, total, err := s.tasks.List(ctx, c)
	if err != nil {
		return nil, query.Meta{}, err
	}
	return tasks, query.NewMeta(c.Page, total), nil
}

func (s *TasksService) Show(ctx context.Context, actx authz.Context, id uuid.UUID) (*domain.Task, error) {
	if !actx.Can(authz.PermTasksRead) {
		return nil, domain.ErrPermissionDenied
	}
	return s.tasks.Get(ctx, id, query.TrashActive, allIncludes)
}

func (s *TasksService) Store(ctx context.Context, actx authz.Context, in domain.CreateTaskInput) (*domain.Task, error) {
	if !actx.Can(authz.PermTasksCreate) {
		return nil, domain.ErrPermissionDenied
	}

	if in.Status == "" {
		in.Status = domain.TaskStatusPending
	}
	if in.Priority == "" {
		in.Priority = domain.TaskPriorityMedium
	}
	if in.AssignedTo != nil {
		if _, err := s.users.GetByID(ctx, *in.AssignedTo); err != nil {
			return nil, err
		}
	}
	in.CreatedBy = actx.UserID

	return s.tasks.Create(ctx, in)
}

func (s *TasksService) Update(ctx context.Context, actx authz.Context, id uuid.UUID, in domain.UpdateTaskInput) (*domain.Task, error) {
	if !actx.Can(authz.PermTasksUpdate) {
		return nil, domain.ErrPermissionDenied
	}
	if in.Empty() {
		return nil, domain.ErrEmptyUpdate
	}

	task, err := s.tasks.Get(ctx, id, query.TrashActive, nil)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if in.Title != nil {
		changes["title"] = *in.Title
	}
	if in.DescriptionSet {
		changes["description"] = in.Description
	}
	if in.Status != nil && *in.Status != task.Status {
		task.ApplyStatus(*in.Status, s.now())
		changes["status"] = string(task.Status)
		changes["completed_at"] = task.CompletedAt
	}
	if in.Priority != nil {
		changes["priority"] = string(*in.Priority)
	}
	if in.AssignedToSet {
		if in.AssignedTo != nil {
			if _, err := s.users.GetByID(ctx, *in.AssignedTo); err != nil {
				return nil, err
			}
		}
		changes["assigned_to"] = in.AssignedTo
	}
	if in.DueDateSet {
		changes["due_date"] = in.DueDate
	}
	changes["updated_by"] = actx.UserID

	if err := s.tasks.Update(ctx, id, changes); err != nil {
		return nil, err
	}
	return s.tasks.Get(ctx, id, query.TrashActive, allIncludes)
}

func (s *TasksService) Destroy(ctx context.Context, actx authz.Context, id uuid.UUID) error {
	if !actx.Can(authz.PermTasksDelete) {
		return domain.ErrPermissionDenied
	}
	return s.tasks.SoftDelete(ctx, id)
}

// Restore brings a soft-deleted task back. Restoring a task that was
// never deleted is a no-op, not an error.
func (s *TasksService) Restore(ctx context.Context, actx authz.Context, id uuid.UUID) error {
	if !actx.Can(authz.PermTasksRestore) {
		return domain.ErrPermissionDenied
	}

	task, err := s.tasks.Get(ctx, id, query.TrashWith, nil)
	if err != nil {
		return err
	}
	if !task.IsDeleted() {
		return nil
	}
	return s.tasks.Restore(ctx, id)
}

func (s *TasksService) ForceDelete(ctx context.Context, actx authz.Context, id uuid.UUID) error {
	if !actx.Can(authz.PermTasksForceDelete) {
		return domain.ErrPermissionDenied
	}

	if _, err := s.tasks.Get(ctx, id, query.TrashWith, nil); err != nil {
		return err
	}
	return s.tasks.ForceDelete(ctx, id)
}

func (s *TasksService) Archive(ctx context.Context, actx authz.Context, id uuid.UUID) error {
	if !actx.Can(authz.PermTasksArchive) {
		return domain.ErrPermissionDenied
	}
	return s.setStatus(ctx, actx, id, domain.TaskStatusArchived)
}

func (s *TasksService) MarkCompleted(ctx context.Context, actx authz.Context, id uuid.UUID) (*domain.Task, error) {
	if !actx.Can(authz.PermTasksUpdate) {
		return nil, domain.ErrPermissionDenied
	}
	if err := s.setStatus(ctx, actx, id, domain.TaskStatusCompleted); err != nil {
		return nil, err
	}
	return s.tasks.Get(ctx, id, query.TrashActive, allIncludes)
}

func (s *TasksService) setStatus(ctx context.Context, actx authz.Context, id uuid.UUID, status domain.TaskStatus) error {
	task, err := s.tasks.Get(ctx, id, query.TrashActive, nil)
	if err != nil {
		return err
	}

	task.ApplyStatus(status, s.now())
	return s.tasks.Update(ctx, id, map[string]any{
		"status":       string(task.Status),
		"completed_at": task.CompletedAt,
		"updated_by":   actx.UserID,
	})
}

func (s *TasksService) AssignTo(ctx context.Context, actx authz.Context, id uuid.UUID, userID uint64) (*domain.Task, error) {
	if !actx.Can(authz.PermTasksUpdate) {
		return nil, domain.ErrPermissionDenied
	}

	if _, err := s.tasks.Get(ctx, id, query.TrashActive, nil); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	err := s.tasks.Update(ctx, id, map[string]any{
		"assigned_to": userID,
		"updated_by":  actx.UserID,
	})
	if err != nil {
		return nil, err
	}
	return s.tasks.Get(ctx, id, query.TrashActive, allIncludes)
}

func (s *TasksService) UpdatePriority(ctx context.Context, actx authz.Context, id uuid.UUID, priority domain.TaskPriority) (*domain.Task, error) {
	if !actx.Can(authz.PermTasksUpdate) {
		return nil, domain.ErrPermissionDenied
	}

	if _, err := s.tasks.Get(ctx, id, query.TrashActive, nil); err != nil {
		return nil, err
	}

	err := s.tasks.Update(ctx, id, map[string]any{
		"priority":   string(priority),
		"updated_by": actx.UserID,
	})
	if err != nil {
		return nil, err
	}
	return s.tasks.Get(ctx, id, query.TrashActive, allIncludes)
}

func (s *TasksService) BulkDelete(ctx context.Context, actx authz.Context, ids []uuid.UUID) ([]domain.BulkOutcome, error) {
	if !actx.Can(authz.PermTasksDelete) {
		return nil, domain.ErrPermissionDenied
	}
	return s.eachTask(ids, func(id uuid.UUID) error {
		return s.tasks.SoftDelete(ctx, id)
	}), nil
}

func (s *TasksService) BulkRestore(ctx context.Context, actx authz.Context, ids []uuid.UUID) ([]domain.BulkOutcome, error) {
	if !actx.Can(authz.PermTasksRestore) {
		return nil, domain.ErrPermissionDenied
	}
	return s.eachTask(ids, func(id uuid.UUID) error {
		task, err := s.tasks.Get(ctx, id, query.TrashWith, nil)
		if err != nil {
			return err
		}
		if !task.IsDeleted() {
			return nil
		}
		return s.tasks.Restore(ctx, id)
	}), nil
}

func (s *TasksService) BulkForceDelete(ctx context.Context, actx authz.Context, ids []uuid.UUID) ([]domain.BulkOutcome, error) {
	if !actx.Can(authz.PermTasksForceDelete) {
		return nil, domain.ErrPermissionDenied
	}
	return s.eachTask(ids, func(id uuid.UUID) error {
		return s.tasks.ForceDelete(ctx, id)
	}), nil
}

func (s *TasksService) BulkArchive(ctx context.Context, actx authz.Context, ids []uuid.UUID) ([]domain.BulkOutcome, error) {
	if !actx.Can(authz.PermTasksArchive) {
		return nil, domain.ErrPermissionDenied
	}
	return s.eachTask(ids, func(id uuid.UUID) error {
		return s.setStatus(ctx, actx, id, domain.TaskStatusArchived)
	}), nil
}

// eachTask applies op to every id independently: best effort, no
// rollback, one outcome per member.
func (s *TasksService) eachTask(ids []uuid.UUID, op func(uuid.UUID) error) []domain.BulkOutcome {
	outcomes := make([]domain.BulkOutcome, 0, len(ids))
	for _, id := range ids {
		outcome := domain.BulkOutcome{TaskID: id, OK: true}
		if err := op(id); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// Export materializes the full filtered set, bypassing pagination. An
// explicit selected-ID list narrows the export to exactly those rows.
func (s *TasksService) Export(ctx context.Context, actx authz.Context, req ports.ExportRequest) (*ports.ExportResult, error) {
	if !actx.Can(authz.PermTasksExport) {
		return nil, domain.ErrPermissionDenied
	}

	format := req.Format
	if format == "" {
		format = export.FormatCSV
	}
	serializer, err := export.ForFormat(format)
	if err != nil {
		return nil, err
	}

	c, err := exportSchema.Parse(query.ValuesFromMap(req.Filters))
	if err != nil {
		return nil, err
	}
	c.SelectedIDs = req.SelectedIDs

	tasks, err := s.tasks.ListAll(ctx, c)
	if err != nil {
		return nil, err
	}

	payload, err := serializer.Serialize(tasks)
	if err != nil {
		return nil, err
	}

	filename, downloadURL, err := s.files.Save(serializer.Extension(), payload)
	if err != nil {
		return nil, err
	}

	return &ports.ExportResult{
		Filename:    filename,
		DownloadURL: downloadURL,
		Format:      format,
		ContentType: serializer.ContentType(),
	}, nil
}

func (s *TasksService) Stats(ctx context.Context, actx authz.Context) (*domain.TaskStats, error) {
	if !actx.Can(authz.PermTasksRead) {
		return nil, domain.ErrPermissionDenied
	}
	return s.tasks.Stats(ctx, s.now())
}

func (s *TasksService) Statuses() []domain.Option {
	return domain.StatusOptions()
}

func (s *TasksService) Priorities() []domain.Option {
	return domain.PriorityOptions()
}
