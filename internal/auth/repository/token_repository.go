package repository

import (
	"time"

	"github.com/architect/blog-api/internal/auth/models"
	"github.com/architect/blog-api/internal/common/errors"
	"gorm.io/gorm"
)

// CreateToken persists an access token record (hash only).
func CreateToken(db *gorm.DB, token *models.AccessToken) error {
	result := db.Create(token)
	if result.Error != nil {
		return errors.Internal("failed to create access token", result.Error.Error())
	}
	return nil
}

// GetTokenByHash looks up a live (unrevoked) token by its stored hash.
func GetTokenByHash(db *gorm.DB, hash string) (*models.AccessToken, error) {
	var token models.AccessToken
	result := db.Where("token_hash = ? AND revoked_at IS NULL", hash).First(&token)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.Unauthenticated("invalid token")
		}
		return nil, errors.Internal("failed to fetch token", result.Error.Error())
	}
	return &token, nil
}

// RevokeToken revokes a single token by hash. Revocation is one-way.
func RevokeToken(db *gorm.DB, hash string) error {
	result := db.Model(&models.AccessToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", time.Now())

	if result.Error != nil {
		return errors.Internal("failed to revoke token", result.Error.Error())
	}
	return nil
}
