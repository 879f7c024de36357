package handlers

import (
	"net/http"
	"strconv"

	"github.com/architect/blog-api/internal/common/database"
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/common/middleware"
	"github.com/architect/blog-api/internal/verification"
	"github.com/gin-gonic/gin"
)

// Handler serves the email verification endpoints.
type Handler struct {
	svc *verification.Service
}

func NewHandler(svc *verification.Service) *Handler {
	return &Handler{svc: svc}
}

// Verify consumes a verification link. Idempotent: repeat visits report
// "already verified" with a 200.
func (h *Handler) Verify(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid user id"))
		return
	}

	outcome, verr := h.svc.Verify(database.DB, uint(id), c.Param("proof"))
	if verr != nil {
		middleware.JSONErrorResponse(c, verr)
		return
	}

	switch outcome {
	case verification.Verified:
		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully!"})
	case verification.AlreadyVerified:
		c.JSON(http.StatusOK, gin.H{"message": "Email already verified."})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid verification link."})
	}
}

// Resend mails a fresh verification link to the authenticated user.
func (h *Handler) Resend(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if user.Verified() {
		c.JSON(http.StatusOK, gin.H{"message": "Email already verified."})
		return
	}

	if err := h.svc.SendVerification(c.Request.Context(), user); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent!"})
}

// Status reports the verification state of the authenticated user.
func (h *Handler) Status(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"email_verified": user.Verified(),
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}
