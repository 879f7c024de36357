package middleware

import (
	"strings"

	authmodels "github.com/architect/blog-api/internal/auth/models"
	authservices "github.com/architect/blog-api/internal/auth/services"
	"github.com/architect/blog-api/internal/common/database"
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/gin-gonic/gin"
)

const (
	userContextKey  = "auth_user"
	tokenContextKey = "auth_token"
)

// AuthRequired authenticates the bearer token and stores the resolved
// user (role populated) on the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			abort(c, errors.Unauthenticated("missing or invalid authentication"))
			return
		}

		user, err := authservices.Authenticate(database.DB, raw)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(userContextKey, user)
		c.Set(tokenContextKey, raw)
		c.Next()
	}
}

// VerifiedRequired gates operations on proven email ownership. Runs after
// AuthRequired and short-circuits before any authorization decision.
func VerifiedRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abort(c, errors.Unauthenticated("missing or invalid authentication"))
			return
		}
		if !user.Verified() {
			abort(c, errors.Forbidden("email address not verified"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *authmodels.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := v.(*authmodels.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentToken returns the raw bearer token for the request, if any.
func CurrentToken(c *gin.Context) string {
	v, ok := c.Get(tokenContextKey)
	if !ok {
		return ""
	}
	token, _ := v.(string)
	return token
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abort(c *gin.Context, err error) {
	JSONErrorResponse(c, err)
	c.Abort()
}
