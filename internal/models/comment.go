package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	PostID    uint       `json:"post_id" gorm:"index;not null"`
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

func (Comment) TableName() string { return "comments" }

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// UpdateCommentRequest defines the full-replace body (PUT)
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// PatchCommentRequest defines the partial body (PATCH)
type PatchCommentRequest struct {
	Content *string `json:"content,omitempty" validate:"omitempty,min=1"`
}
