package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hokuto/taskhub-api/internal/authz"
	"github.com/hokuto/taskhub-api/internal/constants"
	"github.com/hokuto/taskhub-api/internal/models"
	"github.com/hokuto/taskhub-api/internal/repository"
	"github.com/hokuto/taskhub-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrCannotAssignTask    = errors.New("only managers and admins can assign tasks")
	ErrCannotUpdateStatus  = errors.New("not allowed to update this task's status")
	ErrCannotViewUserTasks = errors.New("not allowed to view this user's tasks")
	ErrEmptySearchQuery    = errors.New("search query cannot be empty")
)

// TaskService handles the task lifecycle.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title        string
	Description  string
	Priority     string
	DueDate      *time.Time
	ProjectID    uuid.UUID
	AssignedToID *uuid.UUID
}

// CreateTask creates a task in TODO state. Any authenticated user may
// create a task in any project; there is no membership check here.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
		Status:       models.TaskStatusTodo,
		ProjectID:    input.ProjectID,
		AssignedToID: input.AssignedToID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents input for updating a task. Nil fields are
// left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *time.Time
}

// UpdateTask updates the provided fields of a task. No role check is
// performed; any authenticated caller may update any task.
func (s *TaskService) UpdateTask(taskID uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask permanently removes a task. Deleting a task that does not
// exist succeeds without effect.
func (s *TaskService) DeleteTask(taskID uuid.UUID) error {
	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AssignTask sets the task's assignee. Gated on the actor's global
// role; the assignee is not validated against the user table.
func (s *TaskService) AssignTask(actor authz.Actor, taskID, assignedToID uuid.UUID) (*models.Task, error) {
	if !authz.CanAssignTask(actor) {
		return nil, ErrCannotAssignTask
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.AssignedToID = &assignedToID
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return task, nil
}

// UpdateTaskStatus sets the task's status. Any of the three valid
// statuses may follow any other; only the target value is validated.
func (s *TaskService) UpdateTaskStatus(actor authz.Actor, taskID uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	member, err := s.projectRepo.FindMember(task.ProjectID, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	if !authz.CanUpdateTaskStatus(actor, task, member) {
		return nil, ErrCannotUpdateStatus
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return task, nil
}

// ListTasksByProject returns the tasks of one project with assignees.
func (s *TaskService) ListTasksByProject(projectID uuid.UUID) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTasksByUser returns tasks assigned to the target user, due date
// ascending, optionally restricted to one project.
func (s *TaskService) GetTasksByUser(actor authz.Actor, targetUserID uuid.UUID, projectID *uuid.UUID) ([]models.Task, error) {
	if !authz.CanViewUserTasks(actor, targetUserID) {
		return nil, ErrCannotViewUserTasks
	}

	tasks, err := s.taskRepo.ListByAssignee(targetUserID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// FilterTasks retrieves tasks matching the conjunction of the provided
// filters.
func (s *TaskService) FilterTasks(filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.Filter(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to filter tasks: %w", err)
	}
	return tasks, nil
}

// SearchTasks finds tasks whose title or description contains the
// query. Non-admin actors only see tasks in projects they belong to.
func (s *TaskService) SearchTasks(actor authz.Actor, query string) ([]models.Task, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptySearchQuery
	}

	allProjects := authz.CanSearchAllProjects(actor)
	var projectIDs []uuid.UUID
	if !allProjects {
		ids, err := s.projectRepo.ListProjectIDsByUser(actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project scope: %w", err)
		}
		projectIDs = ids
	}

	tasks, err := s.taskRepo.Search(query, projectIDs, allProjects)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return tasks, nil
}

// GetPaginatedTasks returns a page of tasks, newest first, with the
// total count and the computed number of pages.
func (s *TaskService) GetPaginatedTasks(page, limit int) ([]models.Task, int64, int, error) {
	if page < 1 {
		page = constants.DefaultPage
	}
	if limit < 1 {
		limit = constants.DefaultPageSize
	}

	tasks, total, err := s.taskRepo.ListPaginated(page, limit)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, utils.TotalPages(total, limit), nil
}
