package rbac

import (
	"github.com/architect/blog-api/internal/common/errors"
	rbacmodels "github.com/architect/blog-api/internal/rbac/models"
	"github.com/architect/blog-api/internal/rbac/repository"
	"gorm.io/gorm"
)

// Seed populates the role/permission catalog for both guards. Safe to
// re-run: every row is upserted by its (name, guard) natural key and
// permission sets are replaced, not appended.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, guard := range []string{rbacmodels.GuardWeb, rbacmodels.GuardAPI} {
			perms := make(map[string]*rbacmodels.Permission, len(PermissionNames))
			for _, name := range PermissionNames {
				p, err := repository.UpsertPermission(tx, name, guard)
				if err != nil {
					return err
				}
				perms[name] = p
			}

			for _, roleName := range RoleNames {
				role, err := repository.UpsertRole(tx, roleName, guard)
				if err != nil {
					return err
				}

				var assigned []*rbacmodels.Permission
				for _, permName := range PermissionsOf(roleName) {
					assigned = append(assigned, perms[permName])
				}
				if err := repository.ReplacePermissions(tx, role, assigned); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// AssignRole replaces a user's primary role. Role names outside the
// catalog are rejected before touching the store.
func AssignRole(db *gorm.DB, userID uint, roleName string) error {
	if !KnownRole(roleName) {
		return errors.Unprocessable("unknown role", roleName)
	}

	role, err := repository.GetRoleByName(db, roleName, rbacmodels.GuardAPI)
	if err != nil {
		return err
	}
	return repository.AssignUserRole(db, userID, role.ID)
}

// ResolveRole returns the user's role name, defaulting to "user" so
// callers never see an empty role.
func ResolveRole(db *gorm.DB, userID uint) (string, error) {
	name, err := repository.GetUserRoleName(db, userID)
	if err != nil {
		return "", err
	}
	if name == "" {
		return DefaultRole, nil
	}
	return name, nil
}
