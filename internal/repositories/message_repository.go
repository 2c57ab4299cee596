package repositories

import "github.com/mshirk2/warbler/internal/models"

// MessageRepository defines the interface for message data access.
type MessageRepository interface {
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	Delete(id uint) error
	ByUser(userID uint) ([]models.Message, error)
	CountByUser(userID uint) (int64, error)
	Recent(limit int) ([]models.Message, error)
	Timeline(userIDs []uint, limit int) ([]models.Message, error)
}
