package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/architect/blog-api/internal/auth/models"
	"github.com/architect/blog-api/internal/auth/repository"
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/rbac"
	"gorm.io/gorm"
)

const rawTokenBytes = 32

// IssueToken mints an opaque bearer token for a user. The raw token is
// returned exactly once; only its SHA-256 is persisted, so the value is
// unrecoverable after this call.
func IssueToken(db *gorm.DB, userID uint, name string) (string, error) {
	raw, err := generateToken()
	if err != nil {
		return "", errors.Internal("failed to generate token", err.Error())
	}

	token := &models.AccessToken{
		UserID:    userID,
		TokenHash: hashToken(raw),
		Name:      name,
	}
	if err := repository.CreateToken(db, token); err != nil {
		return "", err
	}
	return raw, nil
}

// Authenticate resolves a bearer token to its user, with the user's role
// populated. Absent, malformed or revoked tokens all produce the same
// Unauthenticated outcome. Tokens do not expire; they only die by
// revocation.
func Authenticate(db *gorm.DB, raw string) (*models.User, error) {
	if len(raw) != rawTokenBytes*2 {
		return nil, errors.Unauthenticated("invalid token")
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return nil, errors.Unauthenticated("invalid token")
	}

	token, err := repository.GetTokenByHash(db, hashToken(raw))
	if err != nil {
		return nil, err
	}

	user, err := repository.GetUserByID(db, token.UserID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.CodeNotFound {
			return nil, errors.Unauthenticated("invalid token")
		}
		return nil, err
	}

	role, err := rbac.ResolveRole(db, user.ID)
	if err != nil {
		return nil, err
	}
	user.Role = role

	return user, nil
}

// RevokeToken revokes the presented raw token (logout).
func RevokeToken(db *gorm.DB, raw string) error {
	return repository.RevokeToken(db, hashToken(raw))
}

func generateToken() (string, error) {
	b := make([]byte, rawTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
