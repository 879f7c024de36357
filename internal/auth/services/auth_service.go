package services

import (
	"strings"

	"github.com/architect/blog-api/internal/auth/models"
	"github.com/architect/blog-api/internal/auth/repository"
	"github.com/architect/blog-api/internal/common/database"
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/common/validation"
	"github.com/architect/blog-api/internal/rbac"
	"gorm.io/gorm"
)

var passwordManager = NewPasswordManager()

// dummyHash keeps the unknown-email and wrong-password login paths in the
// same timing class: when no user exists we still run a full scrypt
// verification against this hash.
var dummyHash string

func init() {
	h, err := passwordManager.HashPassword("dummy-password-for-timing")
	if err != nil {
		panic(err)
	}
	dummyHash = h
}

// RegisterParams carries registration input. AvatarKey is the
// object-store key of an already-uploaded avatar, if any; the caller owns
// the compensating delete when registration fails. Validated here as well
// as at the HTTP boundary, since the seeding CLI also reaches this path.
type RegisterParams struct {
	Name      string  `validate:"required,max=255"`
	Email     string  `validate:"required,email"`
	Password  string  `validate:"required,min=8"`
	Phone     *string `validate:"omitempty,max=32"`
	AvatarKey *string
}

// RegisterResult is the committed outcome: the user (with role resolved)
// and the raw access token, which exists nowhere else.
type RegisterResult struct {
	User  *models.User
	Token string
}

// Register creates the user, assigns the default role and issues the first
// access token as one atomic unit. The role is always "user": elevation is
// a separate, admin-gated operation.
func Register(params RegisterParams) (*RegisterResult, error) {
	if verrs := validation.Validate(params); verrs != nil {
		return nil, errors.Validation("invalid registration input", verrs[0].Field+": "+verrs[0].Message)
	}

	hash, err := passwordManager.HashPassword(params.Password)
	if err != nil {
		return nil, errors.Internal("failed to hash password", err.Error())
	}

	user := &models.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		Phone:        params.Phone,
		Avatar:       params.AvatarKey,
	}

	var token string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := repository.CreateUser(tx, user); err != nil {
			return err
		}
		if err := rbac.AssignRole(tx, user.ID, rbac.DefaultRole); err != nil {
			return err
		}
		// Token issuance is part of the unit: if it fails, the user row
		// must not survive.
		t, err := IssueToken(tx, user.ID, "auth-token")
		if err != nil {
			return err
		}
		token = t
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.Internal("registration failed", err.Error())
	}

	user.Role = rbac.DefaultRole
	return &RegisterResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a fresh token. Unknown email and
// wrong password are indistinguishable to the caller.
func Login(email, password string) (*RegisterResult, error) {
	invalid := errors.Unauthenticated("Invalid credentials")

	user, err := repository.GetUserByEmail(database.DB, email)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.CodeNotFound {
			// Burn the same scrypt work as the real verification path.
			_, _ = passwordManager.VerifyPassword(password, dummyHash)
			return nil, invalid
		}
		return nil, err
	}

	match, err := passwordManager.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, invalid
	}

	token, err := IssueToken(database.DB, user.ID, "auth-token")
	if err != nil {
		return nil, err
	}

	role, err := rbac.ResolveRole(database.DB, user.ID)
	if err != nil {
		return nil, err
	}
	user.Role = role

	return &RegisterResult{User: user, Token: token}, nil
}

// Logout revokes the presented token. Idempotent: revoking an already
// revoked or unknown token succeeds quietly.
func Logout(rawToken string) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	return RevokeToken(database.DB, rawToken)
}
