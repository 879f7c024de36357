package handlers

import (
	"net/http"
	"strconv"

	authhandlers "github.com/architect/blog-api/internal/auth/handlers"
	"github.com/architect/blog-api/internal/common/database"
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/common/middleware"
	"github.com/architect/blog-api/internal/common/storage"
	"github.com/architect/blog-api/internal/rbac"
	"github.com/gin-gonic/gin"
)

// Handler serves user profile and administration endpoints.
type Handler struct {
	store storage.ObjectStore
}

func NewHandler(store storage.ObjectStore) *Handler {
	return &Handler{store: store}
}

// Current returns the authenticated user.
func (h *Handler) Current(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, authhandlers.Summarize(user, h.store))
}

// Profile returns the authenticated, verified user's profile.
func (h *Handler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, authhandlers.Summarize(user, h.store))
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeRole elevates or demotes a user. This is the only path to a
// non-default role; registration never honors client-supplied roles.
func (h *Handler) ChangeRole(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !rbac.HasPermission(actor.Role, "edit users") {
		middleware.JSONErrorResponse(c, errors.Forbidden("not allowed to change roles"))
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid user id"))
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid role input", err.Error()))
		return
	}

	if err := rbac.AssignRole(database.DB, uint(targetID), req.Role); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated",
		"user_id": targetID,
		"role":    req.Role,
	})
}
