package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Flashcard is the element shape serialized into FlashcardSet.Cards.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type FlashcardSet struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Author    string         `gorm:"index;not null;column:author" json:"author"`
	Name      string         `gorm:"not null;column:name" json:"name"`
	Cards     datatypes.JSON `gorm:"not null;column:cards" json:"cards"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (FlashcardSet) TableName() string {
	return "flashcard_set"
}

// FlashcardPlay keeps one row per (set, player) so the
// played-by-N-people achievement counts distinct players.
type FlashcardPlay struct {
	SetID    uuid.UUID `gorm:"type:uuid;primaryKey;column:set_id" json:"set_id"`
	Username string    `gorm:"primaryKey;column:username" json:"username"`
	PlayedAt time.Time `gorm:"not null;column:played_at" json:"played_at"`
}

func (FlashcardPlay) TableName() string {
	return "flashcard_play"
}
