package models

import "time"

// MaxMessageLength bounds the text of a single warble.
const MaxMessageLength = 140

// Message is a short text post ("warble") owned by exactly one user.
// Deleting the owner cascades deletion of the message.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:varchar(140);not null" validate:"required,max=140"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
