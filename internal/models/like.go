package models

import "time"

// Like marks a user's approval of a specific message. The composite primary
// key enforces at most one like per (user, message) pair; a concurrent
// duplicate insert loses on this constraint rather than creating a second row.
type Like struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	MessageID uint      `json:"message_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Message Message `json:"-" gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
}

func (Like) TableName() string { return "likes" }
