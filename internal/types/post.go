package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	PostPrivacyPublic       = "public"
	PostPrivacyConnections  = "connections"
	PostPrivacyCloseFriends = "close_friends"
	PostPrivacyPrivate      = "private"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"index;not null;column:username" json:"username"`
	Body      string    `gorm:"not null;column:body" json:"body"`
	Privacy   string    `gorm:"not null;default:public;column:privacy" json:"privacy"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Post) TableName() string {
	return "post"
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;index;not null;column:post_id" json:"post_id"`
	Username  string    `gorm:"index;not null;column:username" json:"username"`
	Body      string    `gorm:"not null;column:body" json:"body"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Comment) TableName() string {
	return "post_comment"
}

type PostLike struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey;column:post_id" json:"post_id"`
	Username  string    `gorm:"primaryKey;column:username" json:"username"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_like"
}
