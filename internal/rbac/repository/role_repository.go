package repository

import (
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/rbac/models"
	"gorm.io/gorm"
)

// UpsertRole creates or fetches a role by its (name, guard) natural key.
// Idempotent: re-running seeding never duplicates rows.
func UpsertRole(db *gorm.DB, name, guard string) (*models.Role, error) {
	role := &models.Role{Name: name, Guard: guard}
	result := db.Where(models.Role{Name: name, Guard: guard}).FirstOrCreate(role)
	if result.Error != nil {
		return nil, errors.Internal("failed to upsert role", result.Error.Error())
	}
	return role, nil
}

// UpsertPermission creates or fetches a permission by (name, guard).
func UpsertPermission(db *gorm.DB, name, guard string) (*models.Permission, error) {
	perm := &models.Permission{Name: name, Guard: guard}
	result := db.Where(models.Permission{Name: name, Guard: guard}).FirstOrCreate(perm)
	if result.Error != nil {
		return nil, errors.Internal("failed to upsert permission", result.Error.Error())
	}
	return perm, nil
}

// ReplacePermissions sets a role's permission set exactly.
func ReplacePermissions(db *gorm.DB, role *models.Role, perms []*models.Permission) error {
	assoc := make([]models.Permission, 0, len(perms))
	for _, p := range perms {
		assoc = append(assoc, *p)
	}
	if err := db.Model(role).Association("Permissions").Replace(assoc); err != nil {
		return errors.Internal("failed to assign permissions", err.Error())
	}
	return nil
}

// GetRoleByName fetches a role for one guard.
func GetRoleByName(db *gorm.DB, name, guard string) (*models.Role, error) {
	var role models.Role
	result := db.Where("name = ? AND guard = ?", name, guard).First(&role)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("role")
		}
		return nil, errors.Internal("failed to fetch role", result.Error.Error())
	}
	return &role, nil
}

// AssignUserRole replaces the user's primary role. The single-role model
// means assignment is an upsert on user_id.
func AssignUserRole(db *gorm.DB, userID, roleID uint) error {
	var existing models.UserRole
	err := db.Where("user_id = ?", userID).First(&existing).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		if err := db.Create(&models.UserRole{UserID: userID, RoleID: roleID}).Error; err != nil {
			return errors.Internal("failed to assign role", err.Error())
		}
	case err != nil:
		return errors.Internal("failed to fetch role assignment", err.Error())
	default:
		existing.RoleID = roleID
		if err := db.Save(&existing).Error; err != nil {
			return errors.Internal("failed to replace role", err.Error())
		}
	}
	return nil
}

// GetUserRoleName resolves a user's role name, or "" when unassigned.
func GetUserRoleName(db *gorm.DB, userID uint) (string, error) {
	var name string
	err := db.Model(&models.UserRole{}).
		Select("roles.name").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ?", userID).
		Scan(&name).Error
	if err != nil {
		return "", errors.Internal("failed to resolve role", err.Error())
	}
	return name, nil
}

// CountRoles and CountPermissions support the seeding idempotency checks.
func CountRoles(db *gorm.DB) (int64, error) {
	var n int64
	if err := db.Model(&models.Role{}).Count(&n).Error; err != nil {
		return 0, errors.Internal("failed to count roles", err.Error())
	}
	return n, nil
}

func CountPermissions(db *gorm.DB) (int64, error) {
	var n int64
	if err := db.Model(&models.Permission{}).Count(&n).Error; err != nil {
		return 0, errors.Internal("failed to count permissions", err.Error())
	}
	return n, nil
}
