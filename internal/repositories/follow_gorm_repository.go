package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mshirk2/warbler/internal/models"
)

// GORMFollowRepository is a GORM implementation of FollowRepository.
type GORMFollowRepository struct {
	db *gorm.DB
}

// NewGORMFollowRepository creates a new instance of GORMFollowRepository.
func NewGORMFollowRepository(db *gorm.DB) *GORMFollowRepository {
	return &GORMFollowRepository{
		db: db,
	}
}

// Create inserts a follow edge. Following someone twice is a no-op: the
// conflict on the composite primary key is swallowed instead of reported.
func (r *GORMFollowRepository) Create(followerID, followedID uint) error {
	follow := &models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error; err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Delete removes a follow edge. Removing an edge that does not exist is not
// an error.
func (r *GORMFollowRepository) Delete(followerID, followedID uint) error {
	if err := r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error; err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

// Exists reports whether follower currently follows followed.
func (r *GORMFollowRepository) Exists(followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return count > 0, nil
}

// FollowingOf retrieves the users that the given user follows.
func (r *GORMFollowRepository) FollowingOf(userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.Model(&models.User{}).
		Joins("INNER JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.username").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get following of user %d: %w", userID, err)
	}
	return users, nil
}

// FollowersOf retrieves the users that follow the given user.
func (r *GORMFollowRepository) FollowersOf(userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.Model(&models.User{}).
		Joins("INNER JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("users.username").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get followers of user %d: %w", userID, err)
	}
	return users, nil
}

// CountFollowing counts how many users the given user follows.
func (r *GORMFollowRepository) CountFollowing(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count following: %w", err)
	}
	return count, nil
}

// CountFollowers counts how many users follow the given user.
func (r *GORMFollowRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}
