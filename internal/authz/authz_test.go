package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hokuto/taskhub-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCanManageProject(t *testing.T) {
	manager := &models.ProjectMember{Role: models.ProjectRoleManager}
	developer := &models.ProjectMember{Role: models.ProjectRoleDeveloper}

	require.True(t, CanManageProject(manager))
	require.False(t, CanManageProject(developer))
	require.False(t, CanManageProject(nil))
}

func TestCanAssignTask_GlobalRoleOnly(t *testing.T) {
	cases := []struct {
		role models.GlobalRole
		want bool
	}{
		{models.GlobalRoleAdmin, true},
		{models.GlobalRoleManager, true},
		{models.GlobalRoleDeveloper, false},
	}

	for _, tc := range cases {
		actor := Actor{ID: uuid.New(), Role: tc.role}
		require.Equal(t, tc.want, CanAssignTask(actor), "role %s", tc.role)
	}
}

func TestCanUpdateTaskStatus(t *testing.T) {
	assigneeID := uuid.New()
	task := &models.Task{AssignedToID: &assigneeID}

	// The assignee may update even without any membership
	assignee := Actor{ID: assigneeID, Role: models.GlobalRoleDeveloper}
	require.True(t, CanUpdateTaskStatus(assignee, task, nil))

	// A non-assignee developer member is denied
	stranger := Actor{ID: uuid.New(), Role: models.GlobalRoleDeveloper}
	devMembership := &models.ProjectMember{UserID: stranger.ID, Role: models.ProjectRoleDeveloper}
	require.False(t, CanUpdateTaskStatus(stranger, task, devMembership))

	// A project manager may update
	managerMembership := &models.ProjectMember{UserID: stranger.ID, Role: models.ProjectRoleManager}
	require.True(t, CanUpdateTaskStatus(stranger, task, managerMembership))

	// A global admin may update regardless of membership
	admin := Actor{ID: uuid.New(), Role: models.GlobalRoleAdmin}
	require.True(t, CanUpdateTaskStatus(admin, task, nil))

	// Unassigned task: nobody qualifies through the assignee rule
	unassigned := &models.Task{}
	require.False(t, CanUpdateTaskStatus(stranger, unassigned, nil))
}

func TestCanViewUserTasks(t *testing.T) {
	target := uuid.New()

	self := Actor{ID: target, Role: models.GlobalRoleDeveloper}
	require.True(t, CanViewUserTasks(self, target))

	otherDev := Actor{ID: uuid.New(), Role: models.GlobalRoleDeveloper}
	require.False(t, CanViewUserTasks(otherDev, target))

	manager := Actor{ID: uuid.New(), Role: models.GlobalRoleManager}
	require.True(t, CanViewUserTasks(manager, target))

	admin := Actor{ID: uuid.New(), Role: models.GlobalRoleAdmin}
	require.True(t, CanViewUserTasks(admin, target))
}

func TestCanSearchAllProjects(t *testing.T) {
	require.True(t, CanSearchAllProjects(Actor{Role: models.GlobalRoleAdmin}))
	require.False(t, CanSearchAllProjects(Actor{Role: models.GlobalRoleManager}))
	require.False(t, CanSearchAllProjects(Actor{Role: models.GlobalRoleDeveloper}))
}
