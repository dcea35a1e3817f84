package types

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Sender    string    `gorm:"index;not null;column:sender" json:"sender"`
	Recipient string    `gorm:"index;not null;column:recipient" json:"recipient"`
	Body      string    `gorm:"not null;column:body" json:"body"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Message) TableName() string {
	return "private_message"
}
