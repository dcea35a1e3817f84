package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizQuestion is the element shape serialized into Quiz.Questions.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

type Quiz struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Author    string         `gorm:"index;not null;column:author" json:"author"`
	Name      string         `gorm:"not null;column:name" json:"name"`
	Questions datatypes.JSON `gorm:"not null;column:questions" json:"questions"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (Quiz) TableName() string {
	return "quiz"
}

type QuizAttempt struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID    uuid.UUID `gorm:"type:uuid;index;not null;column:quiz_id" json:"quiz_id"`
	Username  string    `gorm:"index;not null;column:username" json:"username"`
	Score     int       `gorm:"not null;column:score" json:"score"`
	Total     int       `gorm:"not null;column:total" json:"total"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempt"
}
