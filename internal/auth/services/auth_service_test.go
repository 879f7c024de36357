package services

import (
	"fmt"
	"testing"

	"github.com/architect/blog-api/internal/auth/models"
	"github.com/architect/blog-api/internal/auth/repository"
	"github.com/architect/blog-api/internal/common/database"
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/rbac"
	rbacmodels "github.com/architect/blog-api/internal/rbac/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	require.NoError(t, database.InitWithType("sqlite", dsn))
	require.NoError(t, database.Migrate(
		&models.User{},
		&models.AccessToken{},
		&rbacmodels.Role{},
		&rbacmodels.Permission{},
		&rbacmodels.UserRole{},
	))
	require.NoError(t, rbac.Seed(database.DB))
}

func TestRegister(t *testing.T) {
	setupTestDB(t)

	result, err := Register(RegisterParams{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// Email is canonicalized, the role is always the default, and the raw
	// token comes back exactly once.
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, rbac.DefaultRole, result.User.Role)
	assert.Len(t, result.Token, 64)
	assert.False(t, result.User.Verified())

	// The stored hash is not the password and the raw token is not stored.
	stored, err := repository.GetUserByID(database.DB, result.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", stored.PasswordHash)

	var count int64
	require.NoError(t, database.DB.Model(&models.AccessToken{}).
		Where("token_hash = ?", result.Token).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)

	_, err := Register(RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret-pass-1"})
	require.NoError(t, err)

	_, err = Register(RegisterParams{Name: "Imposter", Email: "ADA@example.com", Password: "secret-pass-2"})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeConflict, appErr.Code)

	// The failed attempt left nothing behind.
	var users int64
	require.NoError(t, database.DB.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)

	var tokens int64
	require.NoError(t, database.DB.Model(&models.AccessToken{}).Count(&tokens).Error)
	assert.Equal(t, int64(1), tokens)
}

func TestLogin(t *testing.T) {
	setupTestDB(t)

	reg, err := Register(RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret-pass-1"})
	require.NoError(t, err)

	result, err := Login("ada@example.com", "secret-pass-1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, result.User.ID)
	assert.Equal(t, rbac.DefaultRole, result.User.Role)

	// Every login mints a fresh token.
	assert.NotEqual(t, reg.Token, result.Token)
}

func TestLoginUniformFailure(t *testing.T) {
	setupTestDB(t)

	_, err := Register(RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret-pass-1"})
	require.NoError(t, err)

	// Unknown email and wrong password produce byte-identical errors.
	_, errUnknown := Login("ghost@example.com", "whatever-pass")
	_, errWrong := Login("ada@example.com", "wrong-pass")

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())

	appErr, ok := errWrong.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, "Invalid credentials", appErr.Message)
}

func TestTokenLifecycle(t *testing.T) {
	setupTestDB(t)

	reg, err := Register(RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret-pass-1"})
	require.NoError(t, err)

	user, err := Authenticate(database.DB, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)
	assert.Equal(t, rbac.DefaultRole, user.Role)

	// Logout revokes; the token never comes back.
	require.NoError(t, Logout(reg.Token))
	_, err = Authenticate(database.DB, reg.Token)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Status)

	// Revoking again is quiet.
	require.NoError(t, Logout(reg.Token))
	require.NoError(t, Logout(""))
}

func TestAuthenticateMalformed(t *testing.T) {
	setupTestDB(t)

	for _, raw := range []string{
		"",
		"short",
		"zz" + "00000000000000000000000000000000000000000000000000000000000000", // not hex
		"0000000000000000000000000000000000000000000000000000000000000000",      // right shape, unknown
	} {
		_, err := Authenticate(database.DB, raw)
		require.Error(t, err, raw)
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, 401, appErr.Status)
	}
}
