package repositories

import "github.com/mshirk2/warbler/internal/models"

// FollowRepository defines the interface for follow-edge data access.
type FollowRepository interface {
	Create(followerID, followedID uint) error
	Delete(followerID, followedID uint) error
	Exists(followerID, followedID uint) (bool, error)
	FollowingOf(userID uint) ([]models.User, error)
	FollowersOf(userID uint) ([]models.User, error)
	CountFollowing(userID uint) (int64, error)
	CountFollowers(userID uint) (int64, error)
}
