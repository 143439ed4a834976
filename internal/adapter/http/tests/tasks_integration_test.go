//go:build integration
// +build integration

package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	dbadapter "taskboard/internal/adapter/db"
	httpadapter "taskboard/internal/adapter/http"
	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/adapter/http/handlers"
	"taskboard/internal/adapter/http/middleware"
	"taskboard/internal/adapter/http/validation"
	"taskboard/internal/app/export"
	appservice "taskboard/internal/app/service"
	"taskboard/internal/config"
	"taskboard/internal/core/authz"
	"taskboard/pkg/apierrors"
	"taskboard/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const integrationSecret = "integration-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  "../../../../pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})
	validation.RegisterTagNames()
	os.Exit(m.Run())
}

type TasksIntegrationSuite struct {
	IntegrationSuiteBase
	router    *gin.Engine
	exportDir string
	userID    uint64
}

func TestTasksIntegrationSuite(t *testing.T) {
	suite.Run(t, new(TasksIntegrationSuite))
}

func (s *TasksIntegrationSuite) SetupTest() {
	s.ResetDatabase()
	s.userID = s.insertUser("Nora Marchal", "nora@example.com")
	s.exportDir = s.T().TempDir()

	cfg := &config.Config{
		JwtSecret: integrationSecret,
		ExportDir: s.exportDir,
	}

	router := gin.New()
	healthHandler := handlers.NewHealthHandler(s.DB)
	taskRepository := dbadapter.NewTaskRepository(s.DB)
	userRepository := dbadapter.NewUserRepository(s.DB)
	files := export.NewStore(cfg.ExportDir, "/exports")
	taskService := appservice.NewTasksService(taskRepository, userRepository, files)
	taskHandler := handlers.NewTaskHandler(taskService)
	httpadapter.RegisterRoutes(router, cfg, healthHandler, taskHandler)

	s.router = router
}

func (s *TasksIntegrationSuite) token(permissions ...string) string {
	claims := middleware.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(s.userID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Permissions: permissions,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(integrationSecret))
	s.Require().NoError(err)
	return token
}

func (s *TasksIntegrationSuite) fullToken() string {
	return s.token(
		authz.PermTasksRead,
		authz.PermTasksCreate,
		authz.PermTasksUpdate,
		authz.PermTasksDelete,
		authz.PermTasksRestore,
		authz.PermTasksForceDelete,
		authz.PermTasksArchive,
		authz.PermTasksExport,
	)
}

func (s *TasksIntegrationSuite) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *TasksIntegrationSuite) insertUser(name, email string) uint64 {
	result, err := s.DB.Exec(
		"INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, NOW(), NOW())",
		name, email,
	)
	s.Require().NoError(err)
	id, err := result.LastInsertId()
	s.Require().NoError(err)
	return uint64(id)
}

func (s *TasksIntegrationSuite) insertTask(title, status, priority string) string {
	id := uuid.NewString()
	_, err := s.DB.Exec(`
		INSERT INTO tasks (id, title, status, priority, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, title, status, priority, s.userID, s.userID,
	)
	s.Require().NoError(err)
	return id
}

func (s *TasksIntegrationSuite) insertAssignedTask(title, status, priority string, assignedTo uint64) string {
	id := uuid.NewString()
	_, err := s.DB.Exec(`
		INSERT INTO tasks (id, title, status, priority, assigned_to, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, title, status, priority, assignedTo, s.userID, s.userID,
	)
	s.Require().NoError(err)
	return id
}

func (s *TasksIntegrationSuite) TestListTasks_FiltersAndPaginates() {
	s.insertTask("Fix login flow", "pending", "high")
	s.insertTask("Write changelog", "completed", "low")
	s.insertTask("Review design", "pending", "medium")

	rec := s.do(http.MethodGet, "/api/tasks?status=pending&sort=title", s.fullToken(), "")

	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.TaskCollection
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got.Data, 2)
	s.Require().Equal("Fix login flow", got.Data[0].Title)
	s.Require().Equal("Review design", got.Data[1].Title)
	s.Require().Equal(int64(2), got.Meta.Total)
	s.Require().Equal(1, got.Meta.CurrentPage)
	s.Require().Equal(25, got.Meta.PerPage)
}

func (s *TasksIntegrationSuite) TestListTasks_SearchMatchesAssigneeEmail() {
	assignee := s.insertUser("Pat Quill", "pquill-7f3@example.com")
	s.insertTask("Unrelated chore", "pending", "low")
	matched := s.insertAssignedTask("Tune cache TTLs", "pending", "medium", assignee)

	rec := s.do(http.MethodGet, "/api/tasks?search=pquill-7f3", s.fullToken(), "")

	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.TaskCollection
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got.Data, 1)
	s.Require().Equal(matched, got.Data[0].ID)
	s.Require().Equal("Pat Quill", got.Data[0].AssignedUserName)
}

func (s *TasksIntegrationSuite) TestListTasks_UnknownFilterRejected() {
	rec := s.do(http.MethodGet, "/api/tasks?owner=me", s.fullToken(), "")

	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Contains(got.ErrDetails.Message, "owner")
}

func (s *TasksIntegrationSuite) TestCreateTask_PersistsWithDefaults() {
	rec := s.do(http.MethodPost, "/api/tasks", s.fullToken(), `{"title":"Prepare the demo"}`)

	s.Require().Equal(http.StatusCreated, rec.Code)

	var got dto.TaskResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().NotNil(got.Data)
	s.Require().Equal("pending", got.Data.Status.Value)
	s.Require().Equal("medium", got.Data.Priority.Value)

	var row struct {
		Status    string `db:"status"`
		CreatedBy uint64 `db:"created_by"`
	}
	err := s.DB.Get(&row, "SELECT status, created_by FROM tasks WHERE id = ?", got.Data.ID)
	s.Require().NoError(err)
	s.Require().Equal("pending", row.Status)
	s.Require().Equal(s.userID, row.CreatedBy)
}

func (s *TasksIntegrationSuite) TestCreateTask_ValidationError() {
	rec := s.do(http.MethodPost, "/api/tasks", s.fullToken(), `{"status":"blocked"}`)

	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *TasksIntegrationSuite) TestSoftDeleteRestoreFlow() {
	id := s.insertTask("Disposable", "pending", "low")
	token := s.fullToken()

	rec := s.do(http.MethodDelete, "/api/tasks/"+id, token, "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	// The active listing no longer sees it.
	rec = s.do(http.MethodGet, "/api/tasks/"+id, token, "")
	s.Require().Equal(http.StatusNotFound, rec.Code)

	// The deleted view does.
	rec = s.do(http.MethodGet, "/api/tasks/deleted", token, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var deleted dto.TaskCollection
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &deleted))
	s.Require().Len(deleted.Data, 1)
	s.Require().NotNil(deleted.Data[0].DeletedAt)

	rec = s.do(http.MethodPost, "/api/tasks/"+id+"/restore", token, "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/tasks/"+id, token, "")
	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *TasksIntegrationSuite) TestForceDelete_RemovesRow() {
	id := s.insertTask("Gone forever", "pending", "low")

	rec := s.do(http.MethodDelete, "/api/tasks/"+id+"/force-delete", s.fullToken(), "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	var count int
	s.Require().NoError(s.DB.Get(&count, "SELECT COUNT(*) FROM tasks WHERE id = ?", id))
	s.Require().Zero(count)
}

func (s *TasksIntegrationSuite) TestMarkCompleted_StampsCompletedAt() {
	id := s.insertTask("Almost done", "in_progress", "high")

	rec := s.do(http.MethodPost, "/api/tasks/"+id+"/mark-completed", s.fullToken(), "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.TaskResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("completed", got.Data.Status.Value)
	s.Require().NotNil(got.Data.CompletedAt)
}

func (s *TasksIntegrationSuite) TestUpdatePriority() {
	id := s.insertTask("Reprioritize", "pending", "low")

	rec := s.do(http.MethodPost, "/api/tasks/"+id+"/priority", s.fullToken(), `{"priority":"high"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.TaskResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("high", got.Data.Priority.Value)
}

func (s *TasksIntegrationSuite) TestUpdate_NullClearsDueDate() {
	id := s.insertTask("Flexible deadline", "pending", "medium")
	_, err := s.DB.Exec("UPDATE tasks SET due_date = ? WHERE id = ?", time.Now().AddDate(0, 0, 7), id)
	s.Require().NoError(err)

	rec := s.do(http.MethodPatch, "/api/tasks/"+id, s.fullToken(), `{"due_date":null}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.TaskResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Nil(got.Data.DueDate)
}

func (s *TasksIntegrationSuite) TestStats_CountsBuckets() {
	s.insertTask("One", "pending", "low")
	s.insertTask("Two", "completed", "low")
	deleted := s.insertTask("Three", "pending", "low")
	_, err := s.DB.Exec("UPDATE tasks SET deleted_at = NOW() WHERE id = ?", deleted)
	s.Require().NoError(err)

	rec := s.do(http.MethodGet, "/api/tasks/stats", s.fullToken(), "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.StatsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal(int64(2), got.Data.Total)
	s.Require().Equal(int64(1), got.Data.Pending)
	s.Require().Equal(int64(1), got.Data.Completed)
	s.Require().Equal(int64(1), got.Data.Deleted)
}

func (s *TasksIntegrationSuite) TestExport_WritesCSVFile() {
	s.insertTask("Exportable", "pending", "low")

	rec := s.do(http.MethodPost, "/api/tasks/export", s.fullToken(), `{"format":"csv"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.ExportResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("csv", got.Data.Format)
	s.Require().Equal("text/csv", got.Data.ContentType)

	content, err := os.ReadFile(filepath.Join(s.exportDir, got.Data.Filename))
	s.Require().NoError(err)
	s.Require().Contains(string(content), "Exportable")
}

func (s *TasksIntegrationSuite) TestPermissions_ReadOnlyCannotDelete() {
	id := s.insertTask("Protected", "pending", "low")

	rec := s.do(http.MethodDelete, "/api/tasks/"+id, s.token(authz.PermTasksRead), "")
	s.Require().Equal(http.StatusForbidden, rec.Code)
}
