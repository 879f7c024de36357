package models

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Email           string     `gorm:"unique;not null" json:"email"`
	PasswordHash    string     `gorm:"not null" json:"-"`
	Phone           *string    `json:"phone,omitempty"`
	Avatar          *string    `json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Role is resolved from the rbac tables on load, never persisted here.
	Role string `gorm:"-" json:"role,omitempty"`
}

// Verified reports whether the user has proven email ownership.
func (u *User) Verified() bool {
	return u.EmailVerifiedAt != nil
}

// AccessToken is an opaque bearer token record. Only the SHA-256 of the
// raw token is stored; the raw value is returned to the client exactly
// once at issuance.
type AccessToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	TokenHash string     `gorm:"unique;not null" json:"-"`
	Name      string     `json:"name"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// RegisterRequest carries the multipart registration fields. The avatar
// file is read separately from the multipart form.
type RegisterRequest struct {
	Name     string  `form:"name" binding:"required,max=255"`
	Email    string  `form:"email" binding:"required,email"`
	Password string  `form:"password" binding:"required,min=8"`
	Phone    *string `form:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserSummary is the outward representation of a user. The password hash
// never appears here.
type UserSummary struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone,omitempty"`
	EmailVerified bool    `json:"email_verified"`
	Role          string  `json:"role"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type AuthResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
	Token   string      `json:"token,omitempty"`
}
