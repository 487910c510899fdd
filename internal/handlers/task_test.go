package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hokuto/taskhub-api/internal/authz"
	"github.com/hokuto/taskhub-api/internal/constants"
	"github.com/hokuto/taskhub-api/internal/database"
	"github.com/hokuto/taskhub-api/internal/dto"
	"github.com/hokuto/taskhub-api/internal/models"
	"github.com/hokuto/taskhub-api/internal/repository"
	"github.com/hokuto/taskhub-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	taskService := services.NewTaskService(taskRepo, projectRepo)

	// No AI service in tests
	suite.handler = NewTaskHandler(taskService, nil)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TaskHandlerTestSuite) createTestUser(email string, role models.GlobalRole) *models.User {
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskHandlerTestSuite) createTestProject(name string, owner *models.User) *models.Project {
	project := &models.Project{
		Name:        name,
		CreatedByID: owner.ID,
	}
	suite.Require().NoError(suite.db.Create(project).Error)
	suite.addTestMember(project.ID, owner.ID, models.ProjectRoleManager)
	return project
}

func (suite *TaskHandlerTestSuite) addTestMember(projectID, userID uuid.UUID, role models.ProjectRole) {
	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	suite.Require().NoError(suite.db.Create(member).Error)
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, projectID uuid.UUID, assignedTo *uuid.UUID) *models.Task {
	task := &models.Task{
		Title:        title,
		Description:  "Test Description",
		Status:       models.TaskStatusTodo,
		ProjectID:    projectID,
		AssignedToID: assignedTo,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

// createAuthContext creates a request context carrying the actor
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, actor authz.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyActor, actor)

	return c, w
}

func testActor(user *models.User) authz.Actor {
	return authz.Actor{ID: user.ID, Role: user.Role}
}

// TestCreateTask_NoMembershipRequired documents that task creation is
// open to any authenticated user, member of the project or not.
func (suite *TaskHandlerTestSuite) TestCreateTask_NoMembershipRequired() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	outsider := suite.createTestUser("outsider@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)

	body, err := json.Marshal(map[string]any{
		"title":      "Drive-by task",
		"project_id": project.ID,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, testActor(outsider))

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusTodo, response.Status)
	assert.Equal(suite.T(), project.ID, response.ProjectID)
}

// TestUpdateTask_NoRoleCheck documents that field updates are not
// gated on any role.
func (suite *TaskHandlerTestSuite) TestUpdateTask_NoRoleCheck() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	outsider := suite.createTestUser("outsider@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)
	task := suite.createTestTask("Before", project.ID, nil)

	body, err := json.Marshal(map[string]string{"title": "After"})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("PUT", "/api/tasks/"+task.ID.String(), body, testActor(outsider))
	c.Params = gin.Params{{Key: "id", Value: task.ID.String()}}

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(suite.db.Where("id = ?", task.ID).First(&updated).Error)
	assert.Equal(suite.T(), "After", updated.Title)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_NotFound() {
	user := suite.createTestUser("user@example.com", models.GlobalRoleDeveloper)

	body, err := json.Marshal(map[string]string{"title": "After"})
	suite.Require().NoError(err)

	missing := uuid.New()
	c, w := suite.createAuthContext("PUT", "/api/tasks/"+missing.String(), body, testActor(user))
	c.Params = gin.Params{{Key: "id", Value: missing.String()}}

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_IdempotentAndInvalidID() {
	user := suite.createTestUser("user@example.com", models.GlobalRoleDeveloper)

	// Deleting a task that never existed still succeeds
	missing := uuid.New()
	c, w := suite.createAuthContext("DELETE", "/api/tasks/"+missing.String(), nil, testActor(user))
	c.Params = gin.Params{{Key: "id", Value: missing.String()}}
	suite.handler.DeleteTask(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// A malformed id is rejected
	c, w = suite.createAuthContext("DELETE", "/api/tasks/not-a-uuid", nil, testActor(user))
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	suite.handler.DeleteTask(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestAssignTask_GlobalRoleGate() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleManager)
	devMember := suite.createTestUser("dev@example.com", models.GlobalRoleDeveloper)
	assignee := suite.createTestUser("assignee@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)
	suite.addTestMember(project.ID, devMember.ID, models.ProjectRoleManager)
	task := suite.createTestTask("Unassigned", project.ID, nil)

	body, err := json.Marshal(map[string]any{"assigned_to_id": assignee.ID})
	suite.Require().NoError(err)

	// A DEVELOPER is denied even with a MANAGER project membership
	c, w := suite.createAuthContext("PATCH", "/api/tasks/"+task.ID.String()+"/assign", body, testActor(devMember))
	c.Params = gin.Params{{Key: "id", Value: task.ID.String()}}
	suite.handler.AssignTask(c)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// A global MANAGER succeeds
	c, w = suite.createAuthContext("PATCH", "/api/tasks/"+task.ID.String()+"/assign", body, testActor(owner))
	c.Params = gin.Params{{Key: "id", Value: task.ID.String()}}
	suite.handler.AssignTask(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(suite.db.Where("id = ?", task.ID).First(&updated).Error)
	suite.Require().NotNil(updated.AssignedToID)
	assert.Equal(suite.T(), assignee.ID, *updated.AssignedToID)
}

func (suite *TaskHandlerTestSuite) TestAssignTask_MissingAssignee() {
	manager := suite.createTestUser("manager@example.com", models.GlobalRoleManager)
	project := suite.createTestProject("Test Project", manager)
	task := suite.createTestTask("Unassigned", project.ID, nil)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/"+task.ID.String()+"/assign", []byte(`{}`), testActor(manager))
	c.Params = gin.Params{{Key: "id", Value: task.ID.String()}}

	suite.handler.AssignTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatus_AssigneeWithoutMembership() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	assignee := suite.createTestUser("assignee@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)
	task := suite.createTestTask("Assigned", project.ID, &assignee.ID)

	body, err := json.Marshal(map[string]string{"status": "IN_PROGRESS"})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/"+task.ID.String()+"/status", body, testActor(assignee))
	c.Params = gin.Params{{Key: "id", Value: task.ID.String()}}

	suite.handler.UpdateTaskStatus(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(suite.db.Where("id = ?", task.ID).First(&updated).Error)
	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatus_UnrelatedDeveloperDenied() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	dev := suite.createTestUser("dev@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)
	suite.addTestMember(project.ID, dev.ID, models.ProjectRoleDeveloper)
	task := suite.createTestTask("Someone else's", project.ID, nil)

	body, err := json.Marshal(map[string]string{"status": "DONE"})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/"+task.ID.String()+"/status", body, testActor(dev))
	c.Params = gin.Params{{Key: "id", Value: task.ID.String()}}

	suite.handler.UpdateTaskStatus(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatus_AdminAllowed() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	admin := suite.createTestUser("admin@example.com", models.GlobalRoleAdmin)
	project := suite.createTestProject("Test Project", owner)
	task := suite.createTestTask("Any task", project.ID, nil)

	// Reopening a DONE task is allowed; no status is terminal
	suite.Require().NoError(suite.db.Model(task).Update("status", models.TaskStatusDone).Error)

	body, err := json.Marshal(map[string]string{"status": "TODO"})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/"+task.ID.String()+"/status", body, testActor(admin))
	c.Params = gin.Params{{Key: "id", Value: task.ID.String()}}

	suite.handler.UpdateTaskStatus(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatus_InvalidStatus() {
	admin := suite.createTestUser("admin@example.com", models.GlobalRoleAdmin)
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)
	task := suite.createTestTask("A task", project.ID, nil)

	body, err := json.Marshal(map[string]string{"status": "CANCELLED"})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/"+task.ID.String()+"/status", body, testActor(admin))
	c.Params = gin.Params{{Key: "id", Value: task.ID.String()}}

	suite.handler.UpdateTaskStatus(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTasksByUser_SelfOrderedByDueDate() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	dev := suite.createTestUser("dev@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)

	later := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	taskLater := suite.createTestTask("Later", project.ID, &dev.ID)
	suite.Require().NoError(suite.db.Model(taskLater).Update("due_date", later).Error)
	taskSooner := suite.createTestTask("Sooner", project.ID, &dev.ID)
	suite.Require().NoError(suite.db.Model(taskSooner).Update("due_date", sooner).Error)

	c, w := suite.createAuthContext("GET", "/api/tasks/user/"+dev.ID.String(), nil, testActor(dev))
	c.Params = gin.Params{{Key: "userId", Value: dev.ID.String()}}

	suite.handler.GetTasksByUser(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 2)
	assert.Equal(suite.T(), "Sooner", response.Tasks[0].Title)
	assert.Equal(suite.T(), "Later", response.Tasks[1].Title)
}

func (suite *TaskHandlerTestSuite) TestGetTasksByUser_DeveloperCannotViewOthers() {
	dev := suite.createTestUser("dev@example.com", models.GlobalRoleDeveloper)
	other := suite.createTestUser("other@example.com", models.GlobalRoleDeveloper)

	c, w := suite.createAuthContext("GET", "/api/tasks/user/"+other.ID.String(), nil, testActor(dev))
	c.Params = gin.Params{{Key: "userId", Value: other.ID.String()}}

	suite.handler.GetTasksByUser(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSearchTasks_ScopedToMemberProjects() {
	ownerA := suite.createTestUser("a@example.com", models.GlobalRoleDeveloper)
	ownerB := suite.createTestUser("b@example.com", models.GlobalRoleDeveloper)
	projectA := suite.createTestProject("Project A", ownerA)
	projectB := suite.createTestProject("Project B", ownerB)

	suite.createTestTask("bug in parser", projectA.ID, nil)
	suite.createTestTask("bug in renderer", projectB.ID, nil)

	// ownerA only sees the match in their own project
	c, w := suite.createAuthContext("GET", "/api/tasks/search?query=bug", nil, testActor(ownerA))
	suite.handler.SearchTasks(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), "bug in parser", response.Tasks[0].Title)

	// An admin sees both
	admin := suite.createTestUser("admin@example.com", models.GlobalRoleAdmin)
	c, w = suite.createAuthContext("GET", "/api/tasks/search?query=bug", nil, testActor(admin))
	suite.handler.SearchTasks(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Tasks, 2)
}

func (suite *TaskHandlerTestSuite) TestSearchTasks_EmptyQuery() {
	user := suite.createTestUser("user@example.com", models.GlobalRoleDeveloper)

	c, w := suite.createAuthContext("GET", "/api/tasks/search", nil, testActor(user))
	suite.handler.SearchTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestFilterTasks_DueRangeInclusive() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)

	dates := []time.Time{
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		task := suite.createTestTask(fmt.Sprintf("task-%d", i), project.ID, nil)
		suite.Require().NoError(suite.db.Model(task).Update("due_date", d).Error)
	}

	// Both bounds are inclusive
	url := "/api/tasks/filter?due_from=2026-09-01T00:00:00Z&due_to=2026-09-05T00:00:00Z"
	c, w := suite.createAuthContext("GET", url, nil, testActor(owner))
	suite.handler.FilterTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Tasks, 2)
}

func (suite *TaskHandlerTestSuite) TestFilterTasks_StatusAndSort() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)

	done := suite.createTestTask("done task", project.ID, nil)
	suite.Require().NoError(suite.db.Model(done).Update("status", models.TaskStatusDone).Error)
	suite.createTestTask("todo task", project.ID, nil)

	c, w := suite.createAuthContext("GET", "/api/tasks/filter?status=DONE&sort_by=createdAt&sort_order=desc", nil, testActor(owner))
	suite.handler.FilterTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), "done task", response.Tasks[0].Title)
}

func (suite *TaskHandlerTestSuite) TestGetPaginatedTasks() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)

	for i := 0; i < 12; i++ {
		suite.createTestTask(fmt.Sprintf("task-%d", i), project.ID, nil)
	}

	c, w := suite.createAuthContext("GET", "/api/tasks/paginated?page=2&limit=5", nil, testActor(owner))
	suite.handler.GetPaginatedTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Tasks, 5)
	assert.Equal(suite.T(), 2, response.Page)
	assert.Equal(suite.T(), int64(12), response.TotalTasks)
	assert.Equal(suite.T(), 3, response.TotalPages)
}

func (suite *TaskHandlerTestSuite) TestGetPaginatedTasks_Defaults() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)

	for i := 0; i < 12; i++ {
		suite.createTestTask(fmt.Sprintf("task-%d", i), project.ID, nil)
	}

	// Non-numeric values fall back to page 1, limit 10
	c, w := suite.createAuthContext("GET", "/api/tasks/paginated?page=abc&limit=xyz", nil, testActor(owner))
	suite.handler.GetPaginatedTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Tasks, 10)
	assert.Equal(suite.T(), 1, response.Page)
	assert.Equal(suite.T(), 10, response.Limit)
	assert.Equal(suite.T(), 2, response.TotalPages)
}

func (suite *TaskHandlerTestSuite) TestListTasksByProject() {
	owner := suite.createTestUser("owner@example.com", models.GlobalRoleDeveloper)
	assignee := suite.createTestUser("assignee@example.com", models.GlobalRoleDeveloper)
	project := suite.createTestProject("Test Project", owner)
	other := suite.createTestProject("Other Project", owner)

	suite.createTestTask("in scope", project.ID, &assignee.ID)
	suite.createTestTask("out of scope", other.ID, nil)

	c, w := suite.createAuthContext("GET", "/api/tasks/project/"+project.ID.String(), nil, testActor(owner))
	c.Params = gin.Params{{Key: "projectId", Value: project.ID.String()}}

	suite.handler.ListTasksByProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), "in scope", response.Tasks[0].Title)
	suite.Require().NotNil(response.Tasks[0].AssignedTo)
	assert.Equal(suite.T(), assignee.Email, response.Tasks[0].AssignedTo.Email)
}

// TestTaskHandlerTestSuite runs the suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
