package repository

import (
	"github.com/google/uuid"
	"github.com/hokuto/taskhub-api/internal/database"
	"github.com/hokuto/taskhub-api/internal/models"
	"github.com/hokuto/taskhub-api/internal/utils"
	"gorm.io/gorm"
)

// sortColumns maps the accepted sort keys to their columns. An
// unrecognized key silently yields no ordering.
var sortColumns = map[string]string{
	"dueDate":   "tasks.due_date",
	"priority":  "tasks.priority",
	"createdAt": "tasks.created_at",
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uuid.UUID, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete permanently removes a task
func (r *GormTaskRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Task{}).Error
}

// ListByProject lists the tasks of one project with assignees
func (r *GormTaskRepository) ListByProject(projectID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("AssignedTo").
		Where("project_id = ?", projectID).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByAssignee lists tasks assigned to a user, due date ascending
func (r *GormTaskRepository) ListByAssignee(userID uuid.UUID, projectID *uuid.UUID) ([]models.Task, error) {
	query := r.db.Where("assigned_to_id = ?", userID)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var tasks []models.Task
	if err := query.Order("tasks.due_date ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Filter retrieves tasks matching the conjunction of the provided filters
func (r *GormTaskRepository) Filter(filter TaskFilter) ([]models.Task, error) {
	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.DueFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("tasks.due_date <= ?", *filter.DueTo)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "dueDate"
	}
	if column, ok := sortColumns[sortBy]; ok {
		direction := "ASC"
		if filter.SortOrder == "desc" {
			direction = "DESC"
		}
		query = query.Order(column + " " + direction)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Search finds tasks whose title or description contains the query
func (r *GormTaskRepository) Search(query string, projectIDs []uuid.UUID, allProjects bool) ([]models.Task, error) {
	q := r.db.Model(&models.Task{}).
		Where("tasks.title LIKE ? OR tasks.description LIKE ?", "%"+query+"%", "%"+query+"%")

	if !allProjects {
		if len(projectIDs) == 0 {
			return []models.Task{}, nil
		}
		q = q.Where("tasks.project_id IN ?", projectIDs)
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListPaginated retrieves a page of tasks ordered by creation time descending
func (r *GormTaskRepository) ListPaginated(page, limit int) ([]models.Task, int64, error) {
	var total int64
	if err := r.db.Model(&models.Task{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params := utils.PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	var tasks []models.Task
	if err := r.db.Order("tasks.created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}
