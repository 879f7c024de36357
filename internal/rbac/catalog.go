// Package rbac holds the role/permission catalog and the authorization
// decision function.
package rbac

// Role names form a closed enumeration. They are seeded once at bootstrap
// and never created dynamically by end users.
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleAuthor     = "author"
	RoleUser       = "user"
)

// DefaultRole is assigned at registration. Elevation happens only through
// the role-gated admin operation, never from client input.
const DefaultRole = RoleUser

// RoleNames lists the catalog in seeding order.
var RoleNames = []string{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleAuthor, RoleUser}

// PermissionNames is the fixed permission catalog, created for both guards.
var PermissionNames = []string{
	"view users",
	"create users",
	"edit users",
	"delete users",
	"view posts",
	"create posts",
	"edit posts",
	"delete posts",
	"view categories",
	"create categories",
	"edit categories",
	"delete categories",
	"manage settings",
	"view reports",
}

// rolePermissions maps each role to its permission subset. super-admin
// gets the full catalog and is handled separately in Seed.
var rolePermissions = map[string][]string{
	RoleAdmin: {
		"view users",
		"create users",
		"edit users",
		"view posts",
		"create posts",
		"edit posts",
		"delete posts",
		"view categories",
		"create categories",
		"edit categories",
		"delete categories",
		"view reports",
	},
	RoleEditor: {
		"view posts",
		"create posts",
		"edit posts",
		"view categories",
		"create categories",
		"edit categories",
	},
	RoleAuthor: {
		"view posts",
		"create posts",
		"edit posts",
	},
	RoleUser: {
		"view posts",
		"view categories",
	},
}

// KnownRole reports whether name is part of the catalog.
func KnownRole(name string) bool {
	for _, r := range RoleNames {
		if r == name {
			return true
		}
	}
	return false
}

// PermissionsOf returns the permission names a role carries. Pure lookup,
// same for both guards. Unknown roles get nothing.
func PermissionsOf(roleName string) []string {
	if roleName == RoleSuperAdmin {
		out := make([]string, len(PermissionNames))
		copy(out, PermissionNames)
		return out
	}

	perms, ok := rolePermissions[roleName]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether a role carries a named permission.
func HasPermission(roleName, permission string) bool {
	for _, p := range PermissionsOf(roleName) {
		if p == permission {
			return true
		}
	}
	return false
}
