package rbac

import (
	"testing"

	authmodels "github.com/architect/blog-api/internal/auth/models"
	postmodels "github.com/architect/blog-api/internal/posts/models"
	"github.com/stretchr/testify/assert"
)

func user(id uint, role string) *authmodels.User {
	return &authmodels.User{ID: id, Role: role}
}

func post(owner uint, status string) *postmodels.Post {
	return &postmodels.Post{ID: 1, UserID: owner, Status: status}
}

func TestDecideAnonymous(t *testing.T) {
	published := post(1, postmodels.StatusPublished)
	draft := post(1, postmodels.StatusDraft)

	assert.Equal(t, Allow, Decide(nil, ActionView, published))
	assert.Equal(t, Deny, Decide(nil, ActionView, draft))
	assert.Equal(t, Deny, Decide(nil, ActionCreate, nil))
	assert.Equal(t, Deny, Decide(nil, ActionUpdate, published))
	assert.Equal(t, Deny, Decide(nil, ActionDelete, published))
	assert.Equal(t, Deny, Decide(nil, ActionForceDelete, published))
}

func TestDecideOwnership(t *testing.T) {
	owner := user(7, RoleUser)
	own := post(7, postmodels.StatusDraft)

	// An unprivileged owner reaches their own draft for every
	// ownership-granted action.
	assert.Equal(t, Allow, Decide(owner, ActionView, own))
	assert.Equal(t, Allow, Decide(owner, ActionUpdate, own))
	assert.Equal(t, Allow, Decide(owner, ActionDelete, own))
	assert.Equal(t, Allow, Decide(owner, ActionPublishOrArchive, own))

	// Ownership never grants permanent deletion.
	assert.Equal(t, Deny, Decide(owner, ActionForceDelete, own))
}

func TestDecideNonOwner(t *testing.T) {
	stranger := user(8, RoleUser)
	other := post(7, postmodels.StatusDraft)

	assert.Equal(t, Deny, Decide(stranger, ActionView, other))
	assert.Equal(t, Deny, Decide(stranger, ActionUpdate, other))
	assert.Equal(t, Deny, Decide(stranger, ActionDelete, other))
	assert.Equal(t, Deny, Decide(stranger, ActionPublishOrArchive, other))

	// Published posts are still readable by everyone.
	assert.Equal(t, Allow, Decide(stranger, ActionView, post(7, postmodels.StatusPublished)))
}

func TestDecideAdminBypass(t *testing.T) {
	other := post(7, postmodels.StatusDraft)

	for _, role := range []string{RoleAdmin, RoleSuperAdmin} {
		admin := user(99, role)
		assert.Equal(t, Allow, Decide(admin, ActionView, other), role)
		assert.Equal(t, Allow, Decide(admin, ActionUpdate, other), role)
		assert.Equal(t, Allow, Decide(admin, ActionDelete, other), role)
		assert.Equal(t, Allow, Decide(admin, ActionPublishOrArchive, other), role)
	}
}

func TestDecideForceDeleteAdminOnly(t *testing.T) {
	other := post(7, postmodels.StatusDraft)

	assert.Equal(t, Allow, Decide(user(99, RoleAdmin), ActionForceDelete, other))

	// Neither super-admin nor any lesser role may purge.
	for _, role := range []string{RoleSuperAdmin, RoleEditor, RoleAuthor, RoleUser} {
		assert.Equal(t, Deny, Decide(user(99, role), ActionForceDelete, other), role)
	}
}

func TestDecideCreate(t *testing.T) {
	// Any authenticated actor may create.
	for _, role := range []string{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleAuthor, RoleUser} {
		assert.Equal(t, Allow, Decide(user(1, role), ActionCreate, nil), role)
	}
}

func TestDecideOwnershipBeforeRole(t *testing.T) {
	// An owner whose role grants nothing still wins through ownership
	// before any role rule is consulted.
	owner := user(5, RoleAuthor)
	assert.Equal(t, Allow, Decide(owner, ActionPublishOrArchive, post(5, postmodels.StatusDraft)))
	assert.Equal(t, Deny, Decide(owner, ActionPublishOrArchive, post(6, postmodels.StatusDraft)))
}

func TestPermissionCatalog(t *testing.T) {
	assert.Len(t, PermissionsOf(RoleSuperAdmin), len(PermissionNames))
	assert.Len(t, PermissionsOf(RoleAdmin), 12)
	assert.Len(t, PermissionsOf(RoleEditor), 6)
	assert.Len(t, PermissionsOf(RoleAuthor), 3)
	assert.Len(t, PermissionsOf(RoleUser), 2)
	assert.Empty(t, PermissionsOf("ghost"))

	assert.True(t, HasPermission(RoleSuperAdmin, "manage settings"))
	assert.True(t, HasPermission(RoleAdmin, "edit users"))
	assert.False(t, HasPermission(RoleAdmin, "delete users"))
	assert.False(t, HasPermission(RoleAdmin, "manage settings"))
	assert.False(t, HasPermission(RoleUser, "create posts"))
}
