package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectRole is the role a user holds within one project. It is
// deliberately a separate type from GlobalRole: several authorization
// rules hinge on which of the two is consulted.
type ProjectRole string

const (
	ProjectRoleManager   ProjectRole = "MANAGER"
	ProjectRoleDeveloper ProjectRole = "DEVELOPER"
)

// Valid reports whether the role is one of the known project roles.
func (r ProjectRole) Valid() bool {
	switch r {
	case ProjectRoleManager, ProjectRoleDeveloper:
		return true
	}
	return false
}

type ProjectMember struct {
	UserID    uuid.UUID   `gorm:"type:char(36);primarykey" json:"user_id"`
	ProjectID uuid.UUID   `gorm:"type:char(36);primarykey" json:"project_id"`
	Role      ProjectRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time   `json:"created_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
