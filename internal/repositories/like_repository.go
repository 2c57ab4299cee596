package repositories

import "github.com/mshirk2/warbler/internal/models"

// LikeRepository defines the interface for like data access.
type LikeRepository interface {
	Create(userID, messageID uint) error
	Delete(userID, messageID uint) error
	Exists(userID, messageID uint) (bool, error)
	MessagesLikedBy(userID uint) ([]models.Message, error)
	CountByUser(userID uint) (int64, error)
	CountByMessage(messageID uint) (int64, error)
}
