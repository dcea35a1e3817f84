package types

import (
	"time"
)

// DegreeUndeclared is the sentinel degree id meaning "no declared
// programme"; it is exempt from degree-based matching.
const DegreeUndeclared = 1

type Degree struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false;column:id" json:"id"`
	Name string `gorm:"not null;column:name" json:"name"`
}

func (Degree) TableName() string {
	return "degree"
}

type UserProfile struct {
	Username  string    `gorm:"primaryKey;column:username" json:"username"`
	DegreeID  int       `gorm:"not null;default:1;column:degree" json:"degree"`
	Bio       string    `gorm:"column:bio" json:"bio"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profile"
}

type UserHobby struct {
	Username string `gorm:"primaryKey;column:username" json:"username"`
	Hobby    string `gorm:"primaryKey;column:hobby" json:"hobby"`
}

func (UserHobby) TableName() string {
	return "user_hobby"
}

type UserInterest struct {
	Username string `gorm:"primaryKey;column:username" json:"username"`
	Interest string `gorm:"primaryKey;column:interest" json:"interest"`
}

func (UserInterest) TableName() string {
	return "user_interests"
}
