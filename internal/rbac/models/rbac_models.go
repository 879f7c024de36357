package models

import (
	"time"
)

// Guard distinguishes which authentication surface a role or permission
// applies to.
const (
	GuardWeb = "web"
	GuardAPI = "api"
)

// Role is one entry of the closed role catalog. (Name, Guard) is the
// natural key; seeding upserts against it.
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null;uniqueIndex:idx_roles_name_guard" json:"name"`
	Guard       string       `gorm:"not null;uniqueIndex:idx_roles_name_guard" json:"guard"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Permission is one entry of the closed permission catalog.
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_permissions_name_guard" json:"name"`
	Guard     string    `gorm:"not null;uniqueIndex:idx_permissions_name_guard" json:"guard"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRole binds a user to their single primary role. The unique index on
// user_id enforces the single-role model at the schema level.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	RoleID    uint      `gorm:"not null" json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}
