package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/architect/blog-api/internal/auth/models"
	"github.com/architect/blog-api/internal/auth/services"
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/common/mail"
	"github.com/architect/blog-api/internal/common/middleware"
	"github.com/architect/blog-api/internal/common/storage"
	"github.com/architect/blog-api/internal/verification"
	"github.com/architect/blog-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxAvatarBytes = 2 << 20

// Handler wires the registration/login endpoints to their collaborators.
type Handler struct {
	store    storage.ObjectStore
	verifier *verification.Service
	mailer   mail.Transport
}

func NewHandler(store storage.ObjectStore, verifier *verification.Service, mailer mail.Transport) *Handler {
	return &Handler{store: store, verifier: verifier, mailer: mailer}
}

// Register creates an account. The avatar, when present, is uploaded
// before the transaction; any downstream failure deletes it again.
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid registration input", err.Error()))
		return
	}

	var avatarKey *string
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		key, err := h.uploadAvatar(c, file)
		if err != nil {
			middleware.JSONErrorResponse(c, err)
			return
		}
		avatarKey = &key
	}

	result, err := services.Register(services.RegisterParams{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		AvatarKey: avatarKey,
	})
	if err != nil {
		// Compensate: the database never saw the upload succeed.
		if avatarKey != nil {
			if delErr := h.store.Delete(c.Request.Context(), *avatarKey); delErr != nil {
				logger.L().Error("orphaned avatar cleanup failed",
					zap.String("key", *avatarKey), zap.Error(delErr))
			}
		}
		middleware.JSONErrorResponse(c, err)
		return
	}

	// Mail goes out after the user is durably committed. Neither message
	// failing is fatal to the registration itself.
	if err := h.mailer.Send(c.Request.Context(), mail.TemplateWelcome, result.User.Email, map[string]interface{}{
		"name": result.User.Name,
	}); err != nil {
		logger.L().Error("welcome mail failed",
			zap.Uint("user_id", result.User.ID), zap.Error(err))
	}
	if err := h.verifier.SendVerification(c.Request.Context(), result.User); err != nil {
		logger.L().Error("verification mail failed",
			zap.Uint("user_id", result.User.ID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, models.AuthResponse{
		Message: "Registration successful",
		User:    Summarize(result.User, h.store),
		Token:   result.Token,
	})
}

// Login exchanges credentials for a fresh bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid login input", err.Error()))
		return
	}

	result, err := services.Login(req.Email, req.Password)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Message: "Login successful",
		User:    Summarize(result.User, h.store),
		Token:   result.Token,
	})
}

// Logout revokes the presented token.
func (h *Handler) Logout(c *gin.Context) {
	if err := services.Logout(middleware.CurrentToken(c)); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) uploadAvatar(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > maxAvatarBytes {
		return "", errors.Validation("avatar too large", fmt.Sprintf("max %d bytes", maxAvatarBytes))
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.BadRequest("failed to read avatar upload")
	}
	defer src.Close()

	key := storage.ObjectKey("avatars", file.Filename)
	if _, err := h.store.Put(c.Request.Context(), key, file.Header.Get("Content-Type"), src); err != nil {
		return "", errors.Upstream("avatar upload failed", err.Error())
	}
	return key, nil
}

// Summarize builds the outward user representation. The password hash
// never crosses this boundary.
func Summarize(user *models.User, store storage.ObjectStore) models.UserSummary {
	summary := models.UserSummary{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Phone:         user.Phone,
		EmailVerified: user.Verified(),
		Role:          user.Role,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     user.UpdatedAt.Format(time.RFC3339),
	}
	if user.Avatar != nil {
		url := store.PublicURL(*user.Avatar)
		summary.AvatarURL = &url
	}
	return summary
}
