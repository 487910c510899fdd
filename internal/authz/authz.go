// Package authz holds the authorization decisions as pure functions.
// Every rule that gates a mutation lives here, one function per action,
// so tightening a rule later touches exactly one place. Membership
// lookups are performed by the caller and passed in; a nil membership
// means the actor has none in the relevant project.
package authz

import (
	"github.com/google/uuid"
	"github.com/hokuto/taskhub-api/internal/models"
)

// Actor is the authenticated identity performing a request. Role is the
// user's global role, not a project role.
type Actor struct {
	ID   uuid.UUID
	Role models.GlobalRole
}

// CanManageProject reports whether the actor may mutate a project's
// attributes or membership roster. Only the project role counts here;
// a global ADMIN without a MANAGER membership is denied.
func CanManageProject(membership *models.ProjectMember) bool {
	return membership != nil && membership.Role == models.ProjectRoleManager
}

// CanAssignTask reports whether the actor may assign tasks. This check
// is against the global role, not project membership: a global MANAGER
// may assign tasks in projects they do not belong to, while a project
// MANAGER with global role DEVELOPER may not.
func CanAssignTask(actor Actor) bool {
	return actor.Role == models.GlobalRoleManager || actor.Role == models.GlobalRoleAdmin
}

// CanUpdateTaskStatus reports whether the actor may change a task's
// status: the assignee (regardless of membership), a MANAGER member of
// the task's project, or a global ADMIN.
func CanUpdateTaskStatus(actor Actor, task *models.Task, membership *models.ProjectMember) bool {
	if actor.Role == models.GlobalRoleAdmin {
		return true
	}
	if task.AssignedToID != nil && *task.AssignedToID == actor.ID {
		return true
	}
	return CanManageProject(membership)
}

// CanViewUserTasks reports whether the actor may list tasks assigned to
// the target user.
func CanViewUserTasks(actor Actor, targetUserID uuid.UUID) bool {
	if actor.ID == targetUserID {
		return true
	}
	return actor.Role == models.GlobalRoleManager || actor.Role == models.GlobalRoleAdmin
}

// CanSearchAllProjects reports whether search may span every project.
// Non-admins are implicitly scoped to projects they are a member of.
func CanSearchAllProjects(actor Actor) bool {
	return actor.Role == models.GlobalRoleAdmin
}
