package ports

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/core/authz"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/query"
)

type TaskRepository interface {
	// List executes the criteria and returns one page plus the total
	// match count.
	List(ctx context.Context, c query.Criteria) ([]domain.Task, int64, error)
	// ListAll executes the criteria without pagination, for export.
	ListAll(ctx context.Context, c query.Criteria) ([]domain.Task, error)
	Get(ctx context.Context, id uuid.UUID, trash query.TrashScope, includes []string) (*domain.Task, error)
	Create(ctx context.Context, in domain.CreateTaskInput) (*domain.Task, error)
	// Update applies a partial column update. The caller is responsible
	// for having resolved side effects (completed_at, updated_by) into
	// the change set.
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	ForceDelete(ctx context.Context, id uuid.UUID) error
	// Stats computes every bucket in a single snapshot.
	Stats(ctx context.Context, now time.Time) (*domain.TaskStats, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id uint64) (*domain.User, error)
}

type ExportRequest struct {
	Format      string
	SelectedIDs []uuid.UUID
	Filters     map[string]any
}

type ExportResult struct {
	Filename    string
	DownloadURL string
	Format      string
	ContentType string
}

type TaskService interface {
	Index(ctx context.Context, actx authz.Context, params url.Values) ([]domain.Task, query.Meta, error)
	DeletedTasks(ctx context.Context, actx authz.Context, params url.Values) ([]domain.Task, query.Meta, error)
	Show(ctx context.Context, actx authz.Context, id uuid.UUID) (*domain.Task, error)
	Store(ctx context.Context, actx authz.Context, in domain.CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, actx authz.Context, id uuid.UUID, in domain.UpdateTaskInput) (*domain.Task, error)
	Destroy(ctx context.Context, actx authz.Context, id uuid.UUID) error
	Restore(ctx context.Context, actx authz.Context, id uuid.UUID) error
	ForceDelete(ctx context.Context, actx authz.Context, id uuid.UUID) error
	Archive(ctx context.Context, actx authz.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, actx authz.Context, id uuid.UUID) (*domain.Task, error)
	AssignTo(ctx context.Context, actx authz.Context, id uuid.UUID, userID uint64) (*domain.Task, error)
	UpdatePriority(ctx context.Context, actx authz.Context, id uuid.UUID, priority domain.TaskPriority) (*domain.Task, error)
	BulkDelete(ctx context.Context, actx authz.Context, ids []uuid.UUID) ([]domain.BulkOutcome, error)
	BulkRestore(ctx context.Context, actx authz.Context, ids []uuid.UUID) ([]domain.BulkOutcome, error)
	BulkForceDelete(ctx context.Context, actx authz.Context, ids []uuid.UUID) ([]domain.BulkOutcome, error)
	BulkArchive(ctx context.Context, actx authz.Context, ids []uuid.UUID) ([]domain.BulkOutcome, error)
	Export(ctx context.Context, actx authz.Context, req ExportRequest) (*ExportResult, error)
	Stats(ctx context.Context, actx authz.Context) (*domain.TaskStats, error)
	Statuses() []domain.Option
	Priorities() []domain.Option
}
