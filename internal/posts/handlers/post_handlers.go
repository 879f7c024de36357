package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/common/middleware"
	"github.com/architect/blog-api/internal/common/storage"
	"github.com/architect/blog-api/internal/posts/models"
	"github.com/architect/blog-api/internal/posts/services"
	"github.com/architect/blog-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxThumbnailBytes = 2 << 20

// Handler serves the post CRUD endpoints.
type Handler struct {
	store storage.ObjectStore
}

func NewHandler(store storage.ObjectStore) *Handler {
	return &Handler{store: store}
}

// List returns the paginated posts visible to the actor, with filtering
// and sorting from the query string.
func (h *Handler) List(c *gin.Context) {
	var q models.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid query", err.Error()))
		return
	}

	q = q.Normalized()
	posts, total, err := services.ListPosts(middleware.CurrentUser(c), q)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	data := make([]models.PostResponse, len(posts))
	for i := range posts {
		data[i] = h.render(&posts[i])
	}

	resp := models.PaginatedPosts{
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		Data:     data,
	}
	if q.PageSize > 0 {
		resp.TotalPages = (total + int64(q.PageSize) - 1) / int64(q.PageSize)
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns one post, subject to the view decision.
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	post, err := services.GetPost(middleware.CurrentUser(c), id)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render(post))
}

// Create stores a new post. Thumbnail upload happens before the database
// write; failure of the write deletes the upload again.
func (h *Handler) Create(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid post input", err.Error()))
		return
	}

	thumbnailKey, err := h.maybeUploadThumbnail(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	post, err := services.CreatePost(middleware.CurrentUser(c), services.CreatePostParams{
		Title:        req.Title,
		Content:      req.Content,
		Slug:         req.Slug,
		Status:       req.Status,
		Tags:         req.Tags,
		ThumbnailKey: thumbnailKey,
	})
	if err != nil {
		h.compensate(c, thumbnailKey)
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.render(post))
}

// Update applies a full update. A replacement thumbnail is uploaded
// first; the replaced object is deleted only after the write committed.
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid post input", err.Error()))
		return
	}

	thumbnailKey, err := h.maybeUploadThumbnail(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	post, replaced, err := services.UpdatePost(middleware.CurrentUser(c), id, services.UpdatePostParams{
		Title:        req.Title,
		Content:      req.Content,
		Slug:         req.Slug,
		Status:       req.Status,
		Tags:         req.Tags,
		ThumbnailKey: thumbnailKey,
	})
	if err != nil {
		h.compensate(c, thumbnailKey)
		middleware.JSONErrorResponse(c, err)
		return
	}

	if replaced != nil {
		h.compensate(c, replaced)
	}

	c.JSON(http.StatusOK, h.render(post))
}

// Delete soft-deletes a post. The thumbnail stays until a force delete.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	if err := services.DeletePost(middleware.CurrentUser(c), id); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// ForceDelete permanently removes a post. Admin only, enforced by the
// decision function.
func (h *Handler) ForceDelete(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	thumbnail, err := services.ForceDeletePost(middleware.CurrentUser(c), id)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	h.compensate(c, thumbnail)

	c.JSON(http.StatusOK, gin.H{"message": "Post permanently deleted"})
}

// ChangeStatus publishes or archives a post.
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	var req models.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Unprocessable("status must be published or archived", err.Error()))
		return
	}

	post, err := services.ChangeStatus(middleware.CurrentUser(c), id, req.Status)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render(post))
}

func (h *Handler) postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid post id"))
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) maybeUploadThumbnail(c *gin.Context) (*string, error) {
	file, err := c.FormFile("thumbnail")
	if err != nil || file == nil {
		return nil, nil
	}
	key, uerr := h.uploadThumbnail(c, file)
	if uerr != nil {
		return nil, uerr
	}
	return &key, nil
}

func (h *Handler) uploadThumbnail(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > maxThumbnailBytes {
		return "", errors.Validation("thumbnail too large", fmt.Sprintf("max %d bytes", maxThumbnailBytes))
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.BadRequest("failed to read thumbnail upload")
	}
	defer src.Close()

	key := storage.ObjectKey("thumbnails", file.Filename)
	if _, err := h.store.Put(c.Request.Context(), key, file.Header.Get("Content-Type"), src); err != nil {
		return "", errors.Upstream("thumbnail upload failed", err.Error())
	}
	return key, nil
}

// compensate deletes an uploaded object after the flow it belonged to
// failed or superseded it. Failures are logged so orphans can be cleaned
// up manually.
func (h *Handler) compensate(c *gin.Context, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := h.store.Delete(c.Request.Context(), *key); err != nil {
		logger.L().Error("orphaned object cleanup failed",
			zap.String("key", *key), zap.Error(err))
	}
}

func (h *Handler) render(post *models.Post) models.PostResponse {
	resp := models.PostResponse{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		UserID:      post.UserID,
		Slug:        post.Slug,
		Status:      post.Status,
		PublishedAt: post.PublishedAt,
		Tags:        post.Tags,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
	if post.Thumbnail != nil {
		url := h.store.PublicURL(*post.Thumbnail)
		resp.ThumbnailURL = &url
	}
	return resp
}
