package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mshirk2/warbler/internal/models"
)

// GORMMessageRepository is a GORM implementation of MessageRepository.
type GORMMessageRepository struct {
	db *gorm.DB
}

// NewGORMMessageRepository creates a new instance of GORMMessageRepository.
func NewGORMMessageRepository(db *gorm.DB) *GORMMessageRepository {
	return &GORMMessageRepository{
		db: db,
	}
}

// Create creates a new message in the database.
func (r *GORMMessageRepository) Create(message *models.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID retrieves a single message by its ID together with its author.
func (r *GORMMessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("User").First(&message, id).Error; err != nil {
		return nil, fmt.Errorf("message with ID %d: %w", id, err)
	}
	return &message, nil
}

// Delete removes a message and its likes in one transaction.
func (r *GORMMessageRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Message{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete message %d: %w", id, err)
	}
	return nil
}

// ByUser retrieves all messages owned by a user, newest first.
func (r *GORMMessageRepository) ByUser(userID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to get messages for user %d: %w", userID, err)
	}
	return messages, nil
}

// CountByUser counts the messages owned by a user.
func (r *GORMMessageRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Message{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count messages for user %d: %w", userID, err)
	}
	return count, nil
}

// Recent retrieves the latest messages across all users, newest first.
func (r *GORMMessageRepository) Recent(limit int) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Preload("User").Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent messages: %w", err)
	}
	return messages, nil
}

// Timeline retrieves the latest messages authored by any of the given users,
// newest first.
func (r *GORMMessageRepository) Timeline(userIDs []uint, limit int) ([]models.Message, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var messages []models.Message
	if err := r.db.Preload("User").Where("user_id IN ?", userIDs).
		Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}
	return messages, nil
}
