package models

import "time"

// Like represents a like on a post. The composite unique index is the
// storage-level guard against two concurrent likes by the same user.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_likes_user_post"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_likes_user_post"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string { return "likes" }
