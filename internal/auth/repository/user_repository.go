package repository

import (
	"strings"
	"time"

	"github.com/architect/blog-api/internal/auth/models"
	"github.com/architect/blog-api/internal/common/errors"
	"gorm.io/gorm"
)

// CreateUser inserts a user record. Emails are stored in canonical
// lowercase form, which makes the unique index case-insensitive.
func CreateUser(db *gorm.DB, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	result := db.Create(user)
	if result.Error != nil {
		if result.Error == gorm.ErrDuplicatedKey {
			return errors.Conflict("email already registered")
		}
		return errors.Internal("failed to create user", result.Error.Error())
	}
	return nil
}

// GetUserByID retrieves a user by ID
func GetUserByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	result := db.First(&user, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("user")
		}
		return nil, errors.Internal("failed to fetch user", result.Error.Error())
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by canonical email
func GetUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	result := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("user")
		}
		return nil, errors.Internal("failed to fetch user", result.Error.Error())
	}
	return &user, nil
}

// MarkEmailVerified records email ownership proof. One-way: the timestamp
// is only ever set, never cleared.
func MarkEmailVerified(db *gorm.DB, userID uint) error {
	result := db.Model(&models.User{}).
		Where("id = ? AND email_verified_at IS NULL", userID).
		Update("email_verified_at", time.Now())

	if result.Error != nil {
		return errors.Internal("failed to mark email verified", result.Error.Error())
	}
	return nil
}
