package repository

import (
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/posts/models"
	"gorm.io/gorm"
)

// CreatePost inserts a post. Slug collisions surface as Conflict.
func CreatePost(db *gorm.DB, post *models.Post) error {
	result := db.Create(post)
	if result.Error != nil {
		if result.Error == gorm.ErrDuplicatedKey {
			return errors.Conflict("slug already in use")
		}
		return errors.Internal("failed to create post", result.Error.Error())
	}
	return nil
}

// GetPostByID retrieves a post by ID
func GetPostByID(db *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	result := db.First(&post, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("post")
		}
		return nil, errors.Internal("failed to fetch post", result.Error.Error())
	}
	return &post, nil
}

// SavePost persists all fields of an existing post.
func SavePost(db *gorm.DB, post *models.Post) error {
	result := db.Save(post)
	if result.Error != nil {
		if result.Error == gorm.ErrDuplicatedKey {
			return errors.Conflict("slug already in use")
		}
		return errors.Internal("failed to update post", result.Error.Error())
	}
	return nil
}

// DeletePost removes a post row.
func DeletePost(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Post{}, id)
	if result.Error != nil {
		return errors.Internal("failed to delete post", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("post")
	}
	return nil
}

// VisibilityScope narrows a query to what the actor may see: everything
// for privileged viewers, otherwise published posts plus their own.
type VisibilityScope struct {
	ActorID    uint
	SeesDrafts bool // admin/super-admin
}

// ListPosts applies visibility, filters, sorting and pagination.
func ListPosts(db *gorm.DB, q models.ListQuery, scope VisibilityScope) ([]models.Post, int64, error) {
	query := db.Model(&models.Post{})

	if !scope.SeesDrafts {
		query = query.Where("status = ? OR user_id = ?", models.StatusPublished, scope.ActorID)
	}

	if q.Title != "" {
		query = query.Where("title LIKE ?", "%"+q.Title+"%")
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Tag != "" {
		// Tags are stored JSON-serialized; substring match keeps the
		// filter portable across sqlite and postgres.
		query = query.Where("tags LIKE ?", "%\""+q.Tag+"\"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Internal("failed to count posts", err.Error())
	}

	switch q.Sort {
	case "title":
		query = query.Order("title ASC")
	case "-title":
		query = query.Order("title DESC")
	case "published_at":
		query = query.Order("published_at ASC")
	case "-published_at":
		query = query.Order("published_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	offset := (q.Page - 1) * q.PageSize
	var posts []models.Post
	if err := query.Offset(offset).Limit(q.PageSize).Find(&posts).Error; err != nil {
		return nil, 0, errors.Internal("failed to fetch posts", err.Error())
	}

	return posts, total, nil
}
