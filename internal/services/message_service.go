package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mshirk2/warbler/internal/models"
	"github.com/mshirk2/warbler/internal/repositories"
	"github.com/mshirk2/warbler/pkg/rabbitmq"
)

// TimelineLimit caps how many messages the home timeline loads.
const TimelineLimit = 100

var (
	// ErrMessageNotFound signals that the referenced message id does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrNotOwner rejects a delete by anyone but the message's author.
	ErrNotOwner = errors.New("message is owned by another user")

	// ErrOwnMessageLike rejects liking your own message.
	ErrOwnMessageLike = errors.New("cannot like your own message")

	// ErrMessageText rejects empty or over-long message text.
	ErrMessageText = errors.New("message text must be 1-140 characters")
)

// MessageService handles business logic around messages and likes.
type MessageService struct {
	messageRepo repositories.MessageRepository
	followRepo  repositories.FollowRepository
	likeRepo    repositories.LikeRepository
	mqClient    *rabbitmq.Client // may be nil when no broker is configured
}

// NewMessageService creates a new MessageService.
func NewMessageService(
	messageRepo repositories.MessageRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	mqClient *rabbitmq.Client,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
		mqClient:    mqClient,
	}
}

// Create persists a new message owned by the given user.
func (s *MessageService) Create(userID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > models.MaxMessageLength {
		return nil, ErrMessageText
	}

	message := &models.Message{
		Text:   text,
		UserID: userID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	if s.mqClient != nil {
		event := rabbitmq.Event{
			Kind:       rabbitmq.EventMessageCreated,
			UserID:     userID,
			SubjectID:  message.ID,
			OccurredAt: time.Now(),
		}
		if err := s.mqClient.PublishWarbleEvent(event); err != nil {
			log.Printf("failed to publish message event: %v", err)
		}
	}
	return message, nil
}

// GetByID retrieves a single message together with its author.
func (s *MessageService) GetByID(id uint) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return message, nil
}

// Delete removes a message, but only for its owner. The message is untouched
// on any failure.
func (s *MessageService) Delete(messageID, userID uint) error {
	message, err := s.GetByID(messageID)
	if err != nil {
		return err
	}
	if message.UserID != userID {
		return ErrNotOwner
	}
	return s.messageRepo.Delete(messageID)
}

// ToggleLike flips the like state of (user, message): an existing like is
// removed, a missing one is created. Returns the resulting state. Liking your
// own message is rejected.
func (s *MessageService) ToggleLike(userID, messageID uint) (bool, error) {
	message, err := s.GetByID(messageID)
	if err != nil {
		return false, err
	}
	if message.UserID == userID {
		return false, ErrOwnMessageLike
	}

	liked, err := s.likeRepo.Exists(userID, messageID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.likeRepo.Delete(userID, messageID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.likeRepo.Create(userID, messageID); err != nil {
		return false, err
	}
	return true, nil
}

// ByUser retrieves all messages of one user, newest first.
func (s *MessageService) ByUser(userID uint) ([]models.Message, error) {
	return s.messageRepo.ByUser(userID)
}

// Recent retrieves the latest messages across all users.
func (s *MessageService) Recent(limit int) ([]models.Message, error) {
	if limit < 1 || limit > TimelineLimit {
		limit = TimelineLimit
	}
	return s.messageRepo.Recent(limit)
}

// Timeline retrieves the latest messages from the user and everyone they
// follow, newest first.
func (s *MessageService) Timeline(userID uint) ([]models.Message, error) {
	following, err := s.followRepo.FollowingOf(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(following)+1)
	ids = append(ids, userID)
	for _, u := range following {
		ids = append(ids, u.ID)
	}
	return s.messageRepo.Timeline(ids, TimelineLimit)
}
