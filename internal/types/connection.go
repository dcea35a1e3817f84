package types

import (
	"time"
)

// Connection rows are stored directionally. "connected" is symmetric
// by convention (readers union both directions); "request" and "block"
// mean what the row direction says.
const (
	ConnectionTypeRequest   = "request"
	ConnectionTypeConnected = "connected"
	ConnectionTypeBlock     = "block"
)

// Relationship answers "what is B to A" for a given ordering.
const (
	RelationConnected = "connected"
	RelationBlocked   = "blocked"
	RelationIncoming  = "incoming"
	RelationRequest   = "request"
	RelationNone      = "none"
)

type Connection struct {
	User1          string    `gorm:"primaryKey;column:user1" json:"user1"`
	User2          string    `gorm:"primaryKey;column:user2" json:"user2"`
	ConnectionType string    `gorm:"not null;column:connection_type" json:"connection_type"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (Connection) TableName() string {
	return "connection"
}

// CloseFriend marks user1's designation of user2; it is directional
// and independent of the connection rows except that removing a
// connection cascades both close-friend rows.
type CloseFriend struct {
	User1     string    `gorm:"primaryKey;column:user1" json:"user1"`
	User2     string    `gorm:"primaryKey;column:user2" json:"user2"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CloseFriend) TableName() string {
	return "close_friend"
}
