package models

import "time"

// Follow is the directed edge "follower observes followed user's messages".
// The composite primary key doubles as the uniqueness constraint, so a pair
// can only be followed once. Self-follows are rejected in the service layer;
// the schema itself does not constrain them.
type Follow struct {
	FollowerID uint      `json:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint      `json:"followed_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed User `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the relational name from the original schema.
func (Follow) TableName() string { return "follows" }
