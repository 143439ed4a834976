package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
	"taskboard/internal/core/query"
)

const dueSoonWindow = 7 * 24 * time.Hour

const taskColumns = `
  t.id, t.title, t.description, t.status, t.priority, t.assigned_to,
  t.due_date, t.completed_at, t.created_by, t.updated_by,
  t.created_at, t.updated_at, t.deleted_at,
  au.id AS assigned_user_id, au.name AS assigned_user_name, au.email AS assigned_user_email,
  cu.id AS created_user_id, cu.name AS created_user_name, cu.email AS created_user_email,
  uu.id AS updated_user_id, uu.name AS updated_user_name, uu.email AS updated_user_email`

// The user joins are to-one, so they never multiply rows; they serve both
// the search filter and relation includes without a second round trip.
const taskFrom = `
FROM tasks t
LEFT JOIN users au ON au.id = t.assigned_to
LEFT JOIN users cu ON cu.id = t.created_by
LEFT JOIN users uu ON uu.id = t.updated_by`

// Allow-listed name to column translations. The query package guarantees
// only allow-listed names reach the repository; the maps here are the
// single place request vocabulary meets SQL.
var (
	exactColumns = map[string]string{
		"status":      "t.status",
		"priority":    "t.priority",
		"assigned_to": "t.assigned_to",
	}
	searchColumns = map[string]string{
		"title":               "t.title",
		"description":         "t.description",
		"assigned_user.name":  "au.name",
		"assigned_user.email": "au.email",
	}
	rangeColumns = map[string]string{
		"due_date":   "t.due_date",
		"created_at": "t.created_at",
	}
	sortColumns = map[string]string{
		"id":         "t.id",
		"title":      "t.title",
		"status":     "t.status",
		"priority":   "t.priority",
		"due_date":   "t.due_date",
		"created_at": "t.created_at",
		"updated_at": "t.updated_at",
		"deleted_at": "t.deleted_at",
	}
)

type TaskRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

type taskRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	Priority    string         `db:"priority"`
	AssignedTo  sql.NullInt64  `db:"assigned_to"`
	DueDate     sql.NullTime   `db:"due_date"`
	CompletedAt sql.NullTime   `db:"completed_at"`
	CreatedBy   uint64         `db:"created_by"`
	UpdatedBy   uint64         `db:"updated_by"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   sql.NullTime   `db:"deleted_at"`

	AssignedUserID    sql.NullInt64  `db:"assigned_user_id"`
	AssignedUserName  sql.NullString `db:"assigned_user_name"`
	AssignedUserEmail sql.NullString `db:"assigned_user_email"`
	CreatedUserID     sql.NullInt64  `db:"created_user_id"`
	CreatedUserName   sql.NullString `db:"created_user_name"`
	CreatedUserEmail  sql.NullString `db:"created_user_email"`
	UpdatedUserID     sql.NullInt64  `db:"updated_user_id"`
	UpdatedUserName   sql.NullString `db:"updated_user_name"`
	UpdatedUserEmail  sql.NullString `db:"updated_user_email"`
}

func (r *TaskRepository) List(ctx context.Context, c query.Criteria) ([]domain.Task, int64, error) {
	where, args := r.buildWhere(c)

	var total int64
	countQuery := "SELECT COUNT(*)" + taskFrom + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	listQuery := "SELECT" + taskColumns + taskFrom + where + orderBy(c.Sort) + " LIMIT ? OFFSET ?"
	listArgs := append(append([]any{}, args...), c.Page.Size, c.Page.Offset())

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, listArgs...); err != nil {
		return nil, 0, err
	}

	return mapTaskRows(rows, c.Includes), total, nil
}

func (r *TaskRepository) ListAll(ctx context.Context, c query.Criteria) ([]domain.Task, error) {
	where, args := r.buildWhere(c)

	listQuery := "SELECT" + taskColumns + taskFrom + where + orderBy(c.Sort)
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, err
	}

	return mapTaskRows(rows, c.Includes), nil
}

func (r *TaskRepository) Get(ctx context.Context, id uuid.UUID, trash query.TrashScope, includes []string) (*domain.Task, error) {
	conditions := []string{"t.id = ?"}
	args := []any{id.String()}
	if cond := trashCondition(trash); cond != "" {
		conditions = append(conditions, cond)
	}

	getQuery := "SELECT" + taskColumns + taskFrom + " WHERE " + strings.Join(conditions, " AND ")

	var row taskRow
	if err := r.db.GetContext(ctx, &row, getQuery, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task := mapTaskRow(row, includes)
	return &task, nil
}

func (r *TaskRepository) Create(ctx context.Context, in domain.CreateTaskInput) (*domain.Task, error) {
	id := uuid.New()

	const insertQuery = `
INSERT INTO tasks (id, title, description, status, priority, assigned_to, due_date, completed_at, created_by, updated_by)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var completedAt *time.Time
	if in.Status == domain.TaskStatusCompleted {
		now := r.now()
		completedAt = &now
	}

	_, err := r.db.ExecContext(ctx, insertQuery,
		id.String(),
		in.Title,
		in.Description,
		string(in.Status),
		string(in.Priority),
		in.AssignedTo,
		in.DueDate,
		completedAt,
		in.CreatedBy,
		in.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, id, query.TrashActive, nil)
}

func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}

	// Sorted fields keep the statement deterministic.
	fields := make([]string, 0, len(changes))
	for field := range changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	assignments := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for _, field := range fields {
		assignments = append(assignments, field+" = ?")
		args = append(args, changes[field])
	}
	assignments = append(assignments, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id.String())

	updateQuery := "UPDATE tasks SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	_, err := r.db.ExecContext(ctx, updateQuery, args...)
	return err
}

func (r *TaskRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL",
		id.String(),
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *TaskRepository) Restore(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL",
		id.String(),
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *TaskRepository) ForceDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id.String())
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Stats runs as one statement so every bucket comes from the same
// snapshot; concurrent writers cannot make the buckets disagree with the
// total.
func (r *TaskRepository) Stats(ctx context.Context, now time.Time) (*domain.TaskStats, error) {
	const statsQuery = `
SELECT
  COUNT(CASE WHEN deleted_at IS NULL THEN 1 END)                                 AS total,
  COUNT(CASE WHEN deleted_at IS NULL AND status = 'pending' THEN 1 END)          AS pending,
  COUNT(CASE WHEN deleted_at IS NULL AND status = 'in_progress' THEN 1 END)      AS in_progress,
  COUNT(CASE WHEN deleted_at IS NULL AND status = 'completed' THEN 1 END)        AS completed,
  COUNT(CASE WHEN deleted_at IS NULL AND status = 'cancelled' THEN 1 END)        AS cancelled,
  COUNT(CASE WHEN deleted_at IS NULL AND due_date < ?
             AND status NOT IN ('completed', 'cancelled') THEN 1 END)            AS overdue,
  COUNT(CASE WHEN deleted_at IS NULL AND DATE(due_date) = DATE(?)
             AND status NOT IN ('completed', 'cancelled') THEN 1 END)            AS due_today,
  COUNT(deleted_at)                                                              AS deleted
FROM tasks`

	var row struct {
		Total      int64 `db:"total"`
		Pending    int64 `db:"pending"`
		InProgress int64 `db:"in_progress"`
		Completed  int64 `db:"completed"`
		Cancelled  int64 `db:"cancelled"`
		Overdue    int64 `db:"overdue"`
		DueToday   int64 `db:"due_today"`
		Deleted    int64 `db:"deleted"`
	}
	if err := r.db.GetContext(ctx, &row, statsQuery, now, now); err != nil {
		return nil, err
	}

	return &domain.TaskStats{
		Total:      row.Total,
		Pending:    row.Pending,
		InProgress: row.InProgress,
		Completed:  row.Completed,
		Cancelled:  row.Cancelled,
		Overdue:    row.Overdue,
		DueToday:   row.DueToday,
		Deleted:    row.Deleted,
	}, nil
}

func (r *TaskRepository) buildWhere(c query.Criteria) (string, []any) {
	var conditions []string
	var args []any

	if cond := trashCondition(c.Trash); cond != "" {
		conditions = append(conditions, cond)
	}

	// Deterministic iteration over the exact-match map.
	exactFields := make([]string, 0, len(c.Exact))
	for field := range c.Exact {
		exactFields = append(exactFields, field)
	}
	sort.Strings(exactFields)
	for _, field := range exactFields {
		column, ok := exactColumns[field]
		if !ok {
			continue
		}
		values := c.Exact[field]
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		conditions = append(conditions, fmt.Sprintf("%s IN (%s)", column, placeholders))
		for _, v := range values {
			args = append(args, v)
		}
	}

	for _, scope := range c.Scopes {
		cond, scopeArgs := r.scopeCondition(scope)
		if cond != "" {
			conditions = append(conditions, cond)
			args = append(args, scopeArgs...)
		}
	}

	for _, search := range c.Searches {
		var likes []string
		for _, field := range search.Fields {
			column, ok := searchColumns[field]
			if !ok {
				continue
			}
			likes = append(likes, column+" LIKE ?")
			args = append(args, "%"+search.Term+"%")
		}
		if len(likes) > 0 {
			conditions = append(conditions, "("+strings.Join(likes, " OR ")+")")
		}
	}

	rangeFields := make([]string, 0, len(c.Ranges))
	for field := range c.Ranges {
		rangeFields = append(rangeFields, field)
	}
	sort.Strings(rangeFields)
	for _, field := range rangeFields {
		column, ok := rangeColumns[field]
		if !ok {
			continue
		}
		conditions = append(conditions, column+" BETWEEN ? AND ?")
		args = append(args, c.Ranges[field].From, c.Ranges[field].To)
	}

	if len(c.SelectedIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(c.SelectedIDs)), ", ")
		conditions = append(conditions, fmt.Sprintf("t.id IN (%s)", placeholders))
		for _, id := range c.SelectedIDs {
			args = append(args, id.String())
		}
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *TaskRepository) scopeCondition(name string) (string, []any) {
	now := r.now()
	switch name {
	case "overdue":
		return "(t.due_date < ? AND t.status NOT IN ('completed', 'cancelled'))", []any{now}
	case "due_today":
		return "(DATE(t.due_date) = DATE(?) AND t.status NOT IN ('completed', 'cancelled'))", []any{now}
	case "due_soon":
		return "(t.due_date BETWEEN ? AND ? AND t.status NOT IN ('completed', 'cancelled'))",
			[]any{now, now.Add(dueSoonWindow)}
	}
	return "", nil
}

func trashCondition(scope query.TrashScope) string {
	switch scope {
	case query.TrashOnly:
		return "t.deleted_at IS NOT NULL"
	case query.TrashWith:
		return ""
	default:
		return "t.deleted_at IS NULL"
	}
}

func orderBy(s query.Sort) string {
	column, ok := sortColumns[s.Field]
	if !ok {
		column = "t.created_at"
	}
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return " ORDER BY " + column + " " + direction
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func mapTaskRows(rows []taskRow, includes []string) []domain.Task {
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRow(row, includes))
	}
	return tasks
}

func mapTaskRow(row taskRow, includes []string) domain.Task {
	task := domain.Task{
		ID:        uuid.MustParse(row.ID),
		Title:     row.Title,
		Status:    domain.TaskStatus(row.Status),
		Priority:  domain.TaskPriority(row.Priority),
		CreatedBy: row.CreatedBy,
		UpdatedBy: row.UpdatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}
	if row.AssignedTo.Valid {
		value := uint64(row.AssignedTo.Int64)
		task.AssignedTo = &value
	}
	if row.DueDate.Valid {
		value := row.DueDate.Time
		task.DueDate = &value
	}
	if row.CompletedAt.Valid {
		value := row.CompletedAt.Time
		task.CompletedAt = &value
	}
	if row.DeletedAt.Valid {
		value := row.DeletedAt.Time
		task.DeletedAt = &value
	}

	// The assigned user rides along unconditionally: the list
	// representation always renders an assignee name.
	task.AssignedUser = mapUserColumns(row.AssignedUserID, row.AssignedUserName, row.AssignedUserEmail)
	if hasInclude(includes, "createdByUser") {
		task.CreatedByUser = mapUserColumns(row.CreatedUserID, row.CreatedUserName, row.CreatedUserEmail)
	}
	if hasInclude(includes, "updatedByUser") {
		task.UpdatedByUser = mapUserColumns(row.UpdatedUserID, row.UpdatedUserName, row.UpdatedUserEmail)
	}

	return task
}

func mapUserColumns(id sql.NullInt64, name, email sql.NullString) *domain.User {
	if !id.Valid {
		return nil
	}
	return &domain.User{
		ID:    uint64(id.Int64),
		Name:  name.String,
		Email: email.String,
	}
}

func hasInclude(includes []string, name string) bool {
	for _, inc := range includes {
		if inc == name {
			return true
		}
	}
	return false
}
