package services

import (
	"time"

	authmodels "github.com/architect/blog-api/internal/auth/models"
	"github.com/architect/blog-api/internal/common/database"
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/common/validation"
	"github.com/architect/blog-api/internal/posts/models"
	"github.com/architect/blog-api/internal/posts/repository"
	"github.com/architect/blog-api/internal/rbac"
	"gorm.io/gorm"
)

// CreatePostParams carries validated input. ThumbnailKey is the object
// key of an already-uploaded thumbnail; the caller owns the compensating
// delete if creation fails.
type CreatePostParams struct {
	Title        string
	Content      string
	Slug         string
	Status       string
	Tags         []string
	ThumbnailKey *string
}

// CreatePost authorizes, sanitizes and persists a new post owned by actor.
func CreatePost(actor *authmodels.User, params CreatePostParams) (*models.Post, error) {
	if rbac.Decide(actor, rbac.ActionCreate, nil) == rbac.Deny {
		return nil, errors.Forbidden("not allowed to create posts")
	}

	status := params.Status
	if status == "" {
		status = models.StatusDraft
	}

	post := &models.Post{
		Title:     params.Title,
		Content:   SanitizeContent(params.Content),
		UserID:    actor.ID,
		Slug:      params.Slug,
		Status:    status,
		Tags:      params.Tags,
		Thumbnail: params.ThumbnailKey,
	}
	if status == models.StatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return repository.CreatePost(tx, post)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost fetches a post the actor is allowed to view. Denied drafts
// render as NotFound so their existence is not leaked.
func GetPost(actor *authmodels.User, id uint) (*models.Post, error) {
	post, err := repository.GetPostByID(database.DB, id)
	if err != nil {
		return nil, err
	}

	if rbac.Decide(actor, rbac.ActionView, post) == rbac.Deny {
		return nil, errors.NotFound("post")
	}
	return post, nil
}

// ListPosts returns the paginated set of posts visible to the actor.
func ListPosts(actor *authmodels.User, q models.ListQuery) ([]models.Post, int64, error) {
	q = q.Normalized()

	scope := repository.VisibilityScope{}
	if actor != nil {
		scope.ActorID = actor.ID
		scope.SeesDrafts = actor.Role == rbac.RoleAdmin || actor.Role == rbac.RoleSuperAdmin
	}

	return repository.ListPosts(database.DB, q, scope)
}

// UpdatePostParams mirrors CreatePostParams for updates. ThumbnailKey,
// when set, replaces the stored thumbnail.
type UpdatePostParams struct {
	Title        string
	Content      string
	Slug         string
	Status       string
	Tags         []string
	ThumbnailKey *string
}

// UpdatePost applies a full update to a post the actor may edit. Returns
// the key of the replaced thumbnail, which the caller deletes after the
// write has committed.
func UpdatePost(actor *authmodels.User, id uint, params UpdatePostParams) (*models.Post, *string, error) {
	post, err := repository.GetPostByID(database.DB, id)
	if err != nil {
		return nil, nil, err
	}

	if rbac.Decide(actor, rbac.ActionUpdate, post) == rbac.Deny {
		return nil, nil, errors.Forbidden("not allowed to update this post")
	}

	var replacedThumbnail *string
	if params.ThumbnailKey != nil {
		replacedThumbnail = post.Thumbnail
		post.Thumbnail = params.ThumbnailKey
	}

	post.Title = params.Title
	post.Content = SanitizeContent(params.Content)
	post.Slug = params.Slug
	post.Tags = params.Tags
	if params.Status != "" {
		applyStatus(post, params.Status)
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return repository.SavePost(tx, post)
	})
	if err != nil {
		return nil, nil, err
	}
	return post, replacedThumbnail, nil
}

// DeletePost soft-deletes a post the actor may delete. The thumbnail
// stays in the store until the post is permanently purged.
func DeletePost(actor *authmodels.User, id uint) error {
	post, err := repository.GetPostByID(database.DB, id)
	if err != nil {
		return err
	}

	if rbac.Decide(actor, rbac.ActionDelete, post) == rbac.Deny {
		return errors.Forbidden("not allowed to delete this post")
	}

	return repository.DeletePost(database.DB, id)
}

// ForceDeletePost purges a post permanently, including one already
// soft-deleted, and reports the thumbnail key for post-commit cleanup.
// Reserved for admin.
func ForceDeletePost(actor *authmodels.User, id uint) (*string, error) {
	post, err := repository.GetPostByID(database.DB.Unscoped(), id)
	if err != nil {
		return nil, err
	}

	if rbac.Decide(actor, rbac.ActionForceDelete, post) == rbac.Deny {
		return nil, errors.Forbidden("not allowed to permanently delete posts")
	}

	if err := repository.DeletePost(database.DB.Unscoped(), id); err != nil {
		return nil, err
	}
	return post.Thumbnail, nil
}

// ChangeStatus publishes or archives a post.
func ChangeStatus(actor *authmodels.User, id uint, status string) (*models.Post, error) {
	if err := validation.ValidateOneOf(status, models.StatusPublished, models.StatusArchived); err != nil {
		return nil, errors.Unprocessable("status must be published or archived", status)
	}

	post, err := repository.GetPostByID(database.DB, id)
	if err != nil {
		return nil, err
	}

	if rbac.Decide(actor, rbac.ActionPublishOrArchive, post) == rbac.Deny {
		return nil, errors.Forbidden("not allowed to change this post's status")
	}

	applyStatus(post, status)
	if err := repository.SavePost(database.DB, post); err != nil {
		return nil, err
	}
	return post, nil
}

// applyStatus keeps the published_at invariant: non-nil iff published.
func applyStatus(post *models.Post, status string) {
	post.Status = status
	if status == models.StatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	} else {
		post.PublishedAt = nil
	}
}
