package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/hokuto/taskhub-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithOwnerMembership creates a project and the creator's
	// MANAGER membership within a single transaction.
	CreateWithOwnerMembership(project *models.Project, member *models.ProjectMember) error

	// FindByID finds a project by ID
	FindByID(id uuid.UUID) (*models.Project, error)

	// FindByIDWithDetails finds a project with members (and their users)
	// and tasks ordered by creation time descending, each with its assignee.
	FindByIDWithDetails(id uuid.UUID) (*models.Project, error)

	// ListAll lists every project with its memberships
	ListAll() ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project. Removing an absent
	// membership is not an error.
	RemoveMember(projectID, userID uuid.UUID) error

	// FindMember finds a specific project membership
	FindMember(projectID, userID uuid.UUID) (*models.ProjectMember, error)

	// ListProjectIDsByUser lists the IDs of projects the user belongs to
	ListProjectIDsByUser(userID uuid.UUID) ([]uuid.UUID, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete permanently removes a task. Deleting an absent task is not
	// an error.
	Delete(id uuid.UUID) error

	// ListByProject lists the tasks of one project with assignees
	ListByProject(projectID uuid.UUID) ([]models.Task, error)

	// ListByAssignee lists tasks assigned to a user, due date ascending,
	// optionally restricted to one project
	ListByAssignee(userID uuid.UUID, projectID *uuid.UUID) ([]models.Task, error)

	// Filter retrieves tasks matching the conjunction of the provided filters
	Filter(filter TaskFilter) ([]models.Task, error)

	// Search finds tasks whose title or description contains the query,
	// restricted to the given projects unless allProjects is set
	Search(query string, projectIDs []uuid.UUID, allProjects bool) ([]models.Task, error)

	// ListPaginated retrieves a page of tasks ordered by creation time
	// descending, plus the total count
	ListPaginated(page, limit int) ([]models.Task, int64, error)
}

// TaskFilter holds filtering and sorting options for Filter. All set
// fields are combined conjunctively; the due date range is inclusive on
// both bounds.
type TaskFilter struct {
	Status    *models.TaskStatus
	Priority  *string
	ProjectID *uuid.UUID
	DueFrom   *time.Time
	DueTo     *time.Time
	SortBy    string
	SortOrder string
}
