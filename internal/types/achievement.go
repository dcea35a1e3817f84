package types

import (
	"time"
)

type Achievement struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false;column:id" json:"id"`
	Description string `gorm:"not null;column:description" json:"description"`
	Rarity      string `gorm:"not null;column:rarity" json:"rarity"`
	XP          int    `gorm:"not null;column:xp_value" json:"xp_value"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UnlockedAchievement records a one-time grant. The composite primary
// key backstops the engine's check-then-insert against concurrent
// unlocks of the same pair.
type UnlockedAchievement struct {
	Username      string    `gorm:"primaryKey;column:username" json:"username"`
	AchievementID int       `gorm:"primaryKey;column:achievement_id" json:"achievement_id"`
	Date          time.Time `gorm:"not null;column:date" json:"date"`
}

func (UnlockedAchievement) TableName() string {
	return "complete_achievements"
}

type UserLevel struct {
	Username   string `gorm:"primaryKey;column:username" json:"username"`
	Experience int    `gorm:"not null;default:0;column:experience" json:"experience"`
}

func (UserLevel) TableName() string {
	return "user_level"
}
