package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hokuto/taskhub-api/internal/authz"
	"github.com/hokuto/taskhub-api/internal/models"
	"github.com/hokuto/taskhub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrInvalidProjectName  = errors.New("project name cannot be empty")
	ErrNotProjectManager   = errors.New("only a project manager can perform this action")
	ErrMemberAlreadyExists = errors.New("user is already a member of this project")
	ErrInvalidMemberRole   = errors.New("invalid project role")
)

// ProjectService provides business logic for project and membership
// operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// CreateProject creates a project owned by the actor. The actor becomes
// a MANAGER member in the same transaction; a project never exists
// without its manager.
func (s *ProjectService) CreateProject(actor authz.Actor, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		CreatedByID: actor.ID,
	}

	member := &models.ProjectMember{
		UserID: actor.ID,
		Role:   models.ProjectRoleManager,
	}

	if err := s.projectRepo.CreateWithOwnerMembership(project, member); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns every project with its memberships. Listing is
// not scoped to the actor.
func (s *ProjectService) ListProjects() ([]models.Project, error) {
	projects, err := s.projectRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProjectInput carries the optional fields of a project update.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// UpdateProject updates a project's attributes. The actor must hold a
// MANAGER membership on the project; the global role is irrelevant.
func (s *ProjectService) UpdateProject(actor authz.Actor, projectID uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	if err := s.requireManager(actor, projectID); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// AddMember adds a user to the project roster with the given role.
func (s *ProjectService) AddMember(actor authz.Actor, projectID, userID uuid.UUID, role models.ProjectRole) (*models.ProjectMember, error) {
	if err := s.requireManager(actor, projectID); err != nil {
		return nil, err
	}

	if role == "" {
		role = models.ProjectRoleDeveloper
	}
	if !role.Valid() {
		return nil, ErrInvalidMemberRole
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err == nil {
		return nil, ErrMemberAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectMember{
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		// The composite primary key is the backstop for concurrent adds
		// of the same (user, project).
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMemberAlreadyExists
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// RemoveMember removes a user from the project roster. Removing a user
// who is not a member succeeds without effect.
func (s *ProjectService) RemoveMember(actor authz.Actor, projectID, userID uuid.UUID) error {
	if err := s.requireManager(actor, projectID); err != nil {
		return err
	}

	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// GetProjectDetails returns a project with its member roster and its
// tasks, newest first.
func (s *ProjectService) GetProjectDetails(projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDWithDetails(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// requireManager resolves the actor's membership on the project and
// applies the manage-project rule.
func (s *ProjectService) requireManager(actor authz.Actor, projectID uuid.UUID) error {
	member, err := s.projectRepo.FindMember(projectID, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	if !authz.CanManageProject(member) {
		return ErrNotProjectManager
	}
	return nil
}
