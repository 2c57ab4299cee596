package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mshirk2/warbler/internal/models"
	"github.com/mshirk2/warbler/internal/repositories"
	"github.com/mshirk2/warbler/pkg/rabbitmq"
)

var (
	// ErrSelfFollow rejects a user following themselves. The schema does not
	// constrain this; the rule lives here.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrUserNotFound signals that the referenced user id does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// UserService handles business logic around users and their relationships.
type UserService struct {
	userRepo    repositories.UserRepository
	followRepo  repositories.FollowRepository
	likeRepo    repositories.LikeRepository
	messageRepo repositories.MessageRepository
	mqClient    *rabbitmq.Client // may be nil when no broker is configured
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	messageRepo repositories.MessageRepository,
	mqClient *rabbitmq.Client,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
		messageRepo: messageRepo,
		mqClient:    mqClient,
	}
}

// GetByID retrieves a user by id.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Search retrieves users whose username contains the query substring; all
// users when the query is empty.
func (s *UserService) Search(query string) ([]models.User, error) {
	return s.userRepo.Search(query)
}

// Follow creates the directed edge follower -> followed. Following yourself
// is rejected; following someone twice is a no-op.
func (s *UserService) Follow(followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	if _, err := s.GetByID(followedID); err != nil {
		return err
	}
	if err := s.followRepo.Create(followerID, followedID); err != nil {
		return err
	}

	if s.mqClient != nil {
		event := rabbitmq.Event{
			Kind:       rabbitmq.EventUserFollowed,
			UserID:     followerID,
			SubjectID:  followedID,
			OccurredAt: time.Now(),
		}
		if err := s.mqClient.PublishWarbleEvent(event); err != nil {
			// The follow itself succeeded; a broker hiccup is not the user's problem.
			log.Printf("failed to publish follow event: %v", err)
		}
	}
	return nil
}

// Unfollow removes the directed edge follower -> followed.
func (s *UserService) Unfollow(followerID, followedID uint) error {
	return s.followRepo.Delete(followerID, followedID)
}

// IsFollowing reports whether user follows other.
func (s *UserService) IsFollowing(userID, otherID uint) (bool, error) {
	return s.followRepo.Exists(userID, otherID)
}

// IsFollowedBy reports whether other follows user.
func (s *UserService) IsFollowedBy(userID, otherID uint) (bool, error) {
	return s.followRepo.Exists(otherID, userID)
}

// Following retrieves the users the given user follows.
func (s *UserService) Following(userID uint) ([]models.User, error) {
	return s.followRepo.FollowingOf(userID)
}

// Followers retrieves the users following the given user.
func (s *UserService) Followers(userID uint) ([]models.User, error) {
	return s.followRepo.FollowersOf(userID)
}

// LikedMessages retrieves the messages the user has liked.
func (s *UserService) LikedMessages(userID uint) ([]models.Message, error) {
	return s.likeRepo.MessagesLikedBy(userID)
}

// Stats assembles the four counters shown on a profile page.
func (s *UserService) Stats(userID uint) (*models.Stats, error) {
	messages, err := s.messageRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.followRepo.CountFollowers(userID)
	if err != nil {
		return nil, err
	}
	likes, err := s.likeRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	return &models.Stats{
		Messages:  messages,
		Following: following,
		Followers: followers,
		Likes:     likes,
	}, nil
}

// ProfileParams carries the validated profile-edit form fields. Password is
// the user's current password, re-verified before anything changes.
type ProfileParams struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	Password       string
}

// UpdateProfile edits the user's public fields after re-verifying their
// password. A mismatch yields ErrInvalidCredentials and leaves the user
// untouched.
func (s *UserService) UpdateProfile(userID uint, params ProfileParams) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(params.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if params.Username != "" {
		user.Username = params.Username
	}
	if params.Email != "" {
		user.Email = params.Email
	}
	if params.ImageURL != "" {
		user.ImageURL = params.ImageURL
	}
	if params.HeaderImageURL != "" {
		user.HeaderImageURL = params.HeaderImageURL
	}
	user.Bio = params.Bio
	user.Location = params.Location

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// Delete removes the user's account. The repository removes all dependent
// rows in the same transaction, so no orphan messages, follows or likes
// survive.
func (s *UserService) Delete(userID uint) error {
	if err := s.userRepo.Delete(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
