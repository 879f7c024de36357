package middleware

import (
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/gin-gonic/gin"
)

var production bool

// SetEnv configures error detail exposure. In production the Details
// field is stripped from responses so internals never leak.
func SetEnv(env string) {
	production = env == "production"
}

// ErrorHandler middleware catches panics and converts them to proper error responses
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				appErr := errors.Internal("internal server error", "")
				c.JSON(appErr.Status, appErr)
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONErrorResponse wraps errors in consistent JSON format
func JSONErrorResponse(c *gin.Context, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.Internal("internal server error", err.Error())
	}

	if production && appErr.Details != "" {
		sanitized := *appErr
		sanitized.Details = ""
		appErr = &sanitized
	}

	c.JSON(appErr.Status, appErr)
}
