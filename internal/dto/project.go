package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hokuto/taskhub-api/internal/models"
)

// UserDTO represents a user in API responses. It never carries the
// password hash.
type UserDTO struct {
	ID    uuid.UUID         `json:"id"`
	Name  string            `json:"name"`
	Email string            `json:"email"`
	Role  models.GlobalRole `json:"role"`
}

// ProjectMemberDTO represents a membership in API responses
type ProjectMemberDTO struct {
	UserID    uuid.UUID          `json:"user_id"`
	ProjectID uuid.UUID          `json:"project_id"`
	Role      models.ProjectRole `json:"role"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	CreatedByID uuid.UUID          `json:"created_by_id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Members     []ProjectMemberDTO `json:"members,omitempty"`
}

// MemberDetailDTO is the flattened member view used in project details
type MemberDetailDTO struct {
	ID    uuid.UUID          `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  models.ProjectRole `json:"role"`
}

// ProjectDetailDTO represents a project with its roster and tasks
type ProjectDetailDTO struct {
	ProjectDTO
	Members []MemberDetailDTO `json:"members"`
	Tasks   []TaskDTO         `json:"tasks"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// ToProjectMemberDTO converts a ProjectMember model to ProjectMemberDTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		UserID:    member.UserID,
		ProjectID: member.ProjectID,
		Role:      member.Role,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedByID: project.CreatedByID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if len(project.Members) > 0 {
		dto.Members = make([]ProjectMemberDTO, len(project.Members))
		for i, member := range project.Members {
			dto.Members[i] = ToProjectMemberDTO(member)
		}
	}

	return dto
}

// ToProjectDetailDTO converts a project with preloaded members and
// tasks to the detail view
func ToProjectDetailDTO(project models.Project) ProjectDetailDTO {
	members := make([]MemberDetailDTO, len(project.Members))
	for i, member := range project.Members {
		members[i] = MemberDetailDTO{
			ID:    member.User.ID,
			Name:  member.User.Name,
			Email: member.User.Email,
			Role:  member.Role,
		}
	}

	tasks := make([]TaskDTO, len(project.Tasks))
	for i, task := range project.Tasks {
		tasks[i] = ToTaskDTO(task)
	}

	detail := ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Members:    members,
		Tasks:      tasks,
	}
	detail.ProjectDTO.Members = nil
	return detail
}
