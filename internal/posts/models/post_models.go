package models

import (
	"time"

	"gorm.io/gorm"
)

// Post statuses form a closed set.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Post is the resource under authorization.
// Invariant: PublishedAt is non-nil iff Status is "published".
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Content     string     `gorm:"not null" json:"content"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Slug        string     `gorm:"unique;not null" json:"slug"`
	Status      string     `gorm:"not null;default:draft" json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Thumbnail   *string    `json:"-"`
	Tags        []string   `gorm:"serializer:json" json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Soft delete. Regular delete hides the post; force delete purges it.
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreatePostRequest carries the multipart post fields. The thumbnail file
// is read separately from the multipart form.
type CreatePostRequest struct {
	Title   string   `form:"title" binding:"required,max=255"`
	Content string   `form:"content" binding:"required"`
	Slug    string   `form:"slug" binding:"required,max=255"`
	Status  string   `form:"status" binding:"omitempty,oneof=draft published archived"`
	Tags    []string `form:"tags[]" binding:"omitempty,dive,max=50"`
}

// StatusChangeRequest updates a post to published or archived. Draft is
// not an allowed target here.
type StatusChangeRequest struct {
	Status string `json:"status" binding:"required,oneof=published archived"`
}

// Pagination bounds for the post index.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListQuery captures filtering, sorting and pagination for the index.
type ListQuery struct {
	Title    string `form:"filter[title]"`
	Status   string `form:"filter[status]"`
	Tag      string `form:"filter[tag]"`
	Sort     string `form:"sort"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Normalized clamps pagination to the allowed bounds. Both the query and
// the response metadata must go through this, so the page size echoed to
// the client always matches the page size actually applied.
func (q ListQuery) Normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// PostResponse is the outward representation of a post.
type PostResponse struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	UserID       uint       `json:"user_id"`
	Slug         string     `json:"slug"`
	Status       string     `json:"status"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PaginatedPosts is the paginated index payload.
type PaginatedPosts struct {
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int64          `json:"total_pages"`
	Data       []PostResponse `json:"data"`
}
