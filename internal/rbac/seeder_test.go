package rbac

import (
	"fmt"
	"testing"

	"github.com/architect/blog-api/internal/common/database"
	"github.com/architect/blog-api/internal/common/errors"
	rbacmodels "github.com/architect/blog-api/internal/rbac/models"
	"github.com/architect/blog-api/internal/rbac/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	require.NoError(t, database.InitWithType("sqlite", dsn))
	require.NoError(t, database.Migrate(
		&rbacmodels.Role{},
		&rbacmodels.Permission{},
		&rbacmodels.UserRole{},
	))
	return database.DB
}

func TestSeedIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db))

	roles, err := repository.CountRoles(db)
	require.NoError(t, err)
	perms, err := repository.CountPermissions(db)
	require.NoError(t, err)

	// Five roles and fourteen permissions, once per guard.
	assert.Equal(t, int64(len(RoleNames)*2), roles)
	assert.Equal(t, int64(len(PermissionNames)*2), perms)

	// A second run changes nothing.
	require.NoError(t, Seed(db))

	roles2, err := repository.CountRoles(db)
	require.NoError(t, err)
	perms2, err := repository.CountPermissions(db)
	require.NoError(t, err)
	assert.Equal(t, roles, roles2)
	assert.Equal(t, perms, perms2)
}

func TestSeedPermissionSets(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db))

	for _, guard := range []string{rbacmodels.GuardWeb, rbacmodels.GuardAPI} {
		role, err := repository.GetRoleByName(db, RoleEditor, guard)
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Table("role_permissions").
			Where("role_id = ?", role.ID).Count(&count).Error)
		assert.Equal(t, int64(6), count, guard)
	}
}

func TestAssignRole(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db))

	require.NoError(t, AssignRole(db, 1, RoleEditor))

	name, err := ResolveRole(db, 1)
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, name)

	// Reassignment replaces, never stacks.
	require.NoError(t, AssignRole(db, 1, RoleAdmin))
	name, err = ResolveRole(db, 1)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, name)
}

func TestAssignRoleUnknown(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db))

	err := AssignRole(db, 1, "warlord")
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeUnprocessable, appErr.Code)
	assert.Equal(t, 422, appErr.Status)
}

func TestResolveRoleDefault(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db))

	// A user with no assignment still resolves to the default role.
	name, err := ResolveRole(db, 42)
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, name)
}
