package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	AccountTypeStudent = "student"
	AccountTypeStaff   = "staff"
	AccountTypeAdmin   = "admin"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username   string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email      string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password   string    `gorm:"not null;column:password" json:"-"`
	FirstName  string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName   string    `gorm:"not null;column:last_name" json:"last_name"`
	Type       string    `gorm:"not null;default:student;column:type" json:"type"`
	AvatarPath string    `gorm:"column:avatar_path" json:"avatar_path"`
	Closed     bool      `gorm:"not null;default:false;column:closed" json:"closed"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "account"
}

func (u *User) IsStaff() bool {
	return u.Type == AccountTypeStaff || u.Type == AccountTypeAdmin
}
