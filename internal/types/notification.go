package types

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"index;not null;column:username" json:"username"`
	Body      string    `gorm:"not null;column:body" json:"body"`
	URL       string    `gorm:"column:url" json:"url"`
	Read      bool      `gorm:"not null;default:false;column:read" json:"read"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Notification) TableName() string {
	return "notification"
}
