package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	dbadapter "taskboard/internal/adapter/db"
	"taskboard/internal/config"
	"taskboard/internal/core/domain"
)

const seedUserCount = 8

type seedPlan struct {
	count      int
	clear      bool
	completed  int
	inProgress int
	pending    int
	cancelled  int
	overdue    int
	dueSoon    int
}

func main() {
	plan := seedPlan{}
	flag.IntVar(&plan.count, "count", 50, "number of random tasks to create")
	flag.BoolVar(&plan.clear, "clear", false, "remove all existing tasks first")
	flag.IntVar(&plan.completed, "completed", 0, "extra completed tasks")
	flag.IntVar(&plan.inProgress, "in-progress", 0, "extra in-progress tasks")
	flag.IntVar(&plan.pending, "pending", 0, "extra pending tasks")
	flag.IntVar(&plan.cancelled, "cancelled", 0, "extra cancelled tasks")
	flag.IntVar(&plan.overdue, "overdue", 0, "extra overdue tasks")
	flag.IntVar(&plan.dueSoon, "due-soon", 0, "extra tasks due within a week")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer db.Close()

	if err := dbadapter.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()

	if plan.clear {
		if _, err := db.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
			logger.Fatal("failed to clear tasks", zap.Error(err))
		}
		logger.Info("cleared existing tasks")
	}

	userIDs, err := ensureUsers(ctx, db)
	if err != nil {
		logger.Fatal("failed to seed users", zap.Error(err))
	}

	s := seeder{db: db, userIDs: userIDs, now: time.Now()}

	total := 0
	total += s.insertMany(ctx, plan.count, s.randomTask)
	total += s.insertMany(ctx, plan.completed, s.statusTask(domain.TaskStatusCompleted))
	total += s.insertMany(ctx, plan.inProgress, s.statusTask(domain.TaskStatusInProgress))
	total += s.insertMany(ctx, plan.pending, s.statusTask(domain.TaskStatusPending))
	total += s.insertMany(ctx, plan.cancelled, s.statusTask(domain.TaskStatusCancelled))
	total += s.insertMany(ctx, plan.overdue, s.overdueTask)
	total += s.insertMany(ctx, plan.dueSoon, s.dueSoonTask)

	logger.Info("seeding complete", zap.Int("tasks", total), zap.Int("users", len(userIDs)))
}

// ensureUsers returns the existing user ids, creating a small pool of fake
// users when the table is empty.
func ensureUsers(ctx context.Context, db *sqlx.DB) ([]uint64, error) {
	var ids []uint64
	if err := db.SelectContext(ctx, &ids, "SELECT id FROM users ORDER BY id"); err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		return ids, nil
	}

	for i := 0; i < seedUserCount; i++ {
		res, err := db.ExecContext(ctx,
			"INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, NOW(), NOW())",
			gofakeit.Name(),
			fmt.Sprintf("%d.%s", i, gofakeit.Email()),
		)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}
	return ids, nil
}

type seedTask struct {
	Title       string
	Description *string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AssignedTo  *uint64
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedBy   uint64
	CreatedAt   time.Time
}

type seeder struct {
	db      *sqlx.DB
	userIDs []uint64
	now     time.Time
}

func (s *seeder) insertMany(ctx context.Context, n int, build func() seedTask) int {
	inserted := 0
	for i := 0; i < n; i++ {
		t := build()
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO tasks
				(id, title, description, status, priority, assigned_to, due_date, completed_at, created_by, updated_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(),
			t.Title,
			t.Description,
			string(t.Status),
			string(t.Priority),
			t.AssignedTo,
			t.DueDate,
			t.CompletedAt,
			t.CreatedBy,
			t.CreatedBy,
			t.CreatedAt,
			t.CreatedAt,
		)
		if err != nil {
			zap.L().Warn("failed to insert task", zap.Error(err))
			continue
		}
		inserted++
	}
	return inserted
}

func (s *seeder) randomTask() seedTask {
	statuses := []domain.TaskStatus{
		domain.TaskStatusPending,
		domain.TaskStatusInProgress,
		domain.TaskStatusCompleted,
		domain.TaskStatusCancelled,
	}
	t := s.baseTask()
	t.Status = statuses[gofakeit.Number(0, len(statuses)-1)]
	if t.Status == domain.TaskStatusCompleted {
		completedAt := gofakeit.DateRange(t.CreatedAt, s.now)
		t.CompletedAt = &completedAt
	}
	return t
}

func (s *seeder) statusTask(status domain.TaskStatus) func() seedTask {
	return func() seedTask {
		t := s.baseTask()
		t.Status = status
		if status == domain.TaskStatusCompleted {
			completedAt := gofakeit.DateRange(t.CreatedAt, s.now)
			t.CompletedAt = &completedAt
		}
		return t
	}
}

func (s *seeder) overdueTask() seedTask {
	t := s.baseTask()
	t.Status = domain.TaskStatusPending
	dueDate := s.now.AddDate(0, 0, -gofakeit.Number(1, 30))
	t.DueDate = &dueDate
	return t
}

func (s *seeder) dueSoonTask() seedTask {
	t := s.baseTask()
	t.Status = domain.TaskStatusPending
	dueDate := s.now.AddDate(0, 0, gofakeit.Number(0, 7))
	t.DueDate = &dueDate
	return t
}

func (s *seeder) baseTask() seedTask {
	createdAt := gofakeit.DateRange(s.now.AddDate(0, -3, 0), s.now)

	t := seedTask{
		Title:     gofakeit.Sentence(gofakeit.Number(3, 8)),
		Priority:  domain.TaskPriorities[gofakeit.Number(0, len(domain.TaskPriorities)-1)],
		CreatedBy: s.pickUser(),
		CreatedAt: createdAt,
	}

	if gofakeit.Bool() {
		description := gofakeit.Paragraph(1, gofakeit.Number(1, 3), gofakeit.Number(5, 15), " ")
		t.Description = &description
	}
	if gofakeit.Number(0, 9) < 7 {
		assignee := s.pickUser()
		t.AssignedTo = &assignee
	}
	if gofakeit.Bool() {
		dueDate := s.now.AddDate(0, 0, gofakeit.Number(-10, 30))
		t.DueDate = &dueDate
	}
	return t
}

func (s *seeder) pickUser() uint64 {
	return s.userIDs[gofakeit.Number(0, len(s.userIDs)-1)]
}
