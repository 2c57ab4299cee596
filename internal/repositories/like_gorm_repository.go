package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mshirk2/warbler/internal/models"
)

// GORMLikeRepository is a GORM implementation of LikeRepository.
type GORMLikeRepository struct {
	db *gorm.DB
}

// NewGORMLikeRepository creates a new instance of GORMLikeRepository.
func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{
		db: db,
	}
}

// Create inserts a like row. Two concurrent likes of the same message race on
// the composite primary key; the loser's conflict is swallowed, leaving the
// pair in the "liked" state either way.
func (r *GORMLikeRepository) Create(userID, messageID uint) error {
	like := &models.Like{UserID: userID, MessageID: messageID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Delete removes a like row.
func (r *GORMLikeRepository) Delete(userID, messageID uint) error {
	if err := r.db.Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error; err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

// Exists reports whether the user has liked the message.
func (r *GORMLikeRepository) Exists(userID, messageID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}

// MessagesLikedBy retrieves the messages the user has liked, newest like first.
func (r *GORMLikeRepository) MessagesLikedBy(userID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Model(&models.Message{}).Preload("User").
		Joins("INNER JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to get likes of user %d: %w", userID, err)
	}
	return messages, nil
}

// CountByUser counts how many messages the user has liked.
func (r *GORMLikeRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes by user: %w", err)
	}
	return count, nil
}

// CountByMessage counts how many users have liked the message.
func (r *GORMLikeRepository) CountByMessage(messageID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("message_id = ?", messageID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes on message: %w", err)
	}
	return count, nil
}
