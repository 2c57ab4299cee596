package models

import (
	"fmt"
	"time"
)

// Defaults applied at signup when the client leaves the image fields blank.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents an account on the platform.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,min=1,max=100"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password       string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	ImageURL       string    `json:"image_url" gorm:"type:varchar(255)"`
	HeaderImageURL string    `json:"header_image_url" gorm:"type:varchar(255)"`
	Bio            string    `json:"bio" gorm:"type:text"`
	Location       string    `json:"location" gorm:"type:varchar(100)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// String renders the stable diagnostic representation: <User #1: name, mail>.
func (u *User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}

// Stats carries the four counters shown on a profile page.
type Stats struct {
	Messages  int64 `json:"messages"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
}
