package models

import "time"

// Post represents a post authored by a user. The author never changes after
// creation.
type Post struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	MediaURL  string     `json:"media_url,omitempty" gorm:"size:255"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

func (Post) TableName() string { return "posts" }

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Content  string `json:"content" validate:"required,min=1"`
	MediaURL string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the full-replace body (PUT)
type UpdatePostRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Content  string `json:"content" validate:"required,min=1"`
	MediaURL string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// PatchPostRequest defines the partial body (PATCH)
type PatchPostRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content  *string `json:"content,omitempty" validate:"omitempty,min=1"`
	MediaURL *string `json:"media_url,omitempty" validate:"omitempty,url"`
}
