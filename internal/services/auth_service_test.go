package services_test

import (
	"io"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mshirk2/warbler/internal/models"
	"github.com/mshirk2/warbler/internal/repositories"
	"github.com/mshirk2/warbler/internal/services"
)

const testJWTSecret = "test_jwt_secret"

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_Signup(t *testing.T) {
	mockRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	user, err := authService.Signup(services.SignupParams{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)

	// The stored hash never equals the plaintext, and it verifies.
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))

	// Image defaults are applied when the form left them blank.
	assert.Equal(t, models.DefaultImageURL, user.ImageURL)
	assert.Equal(t, models.DefaultHeaderImageURL, user.HeaderImageURL)

	// An explicit image URL survives.
	user2, err := authService.Signup(services.SignupParams{
		Username: "testuser2",
		Email:    "test2@example.com",
		Password: "password123",
		ImageURL: "/custom.png",
	})
	assert.NoError(t, err)
	assert.Equal(t, "/custom.png", user2.ImageURL)
}

func TestAuthService_SignupEmptyPassword(t *testing.T) {
	mockRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Empty password always fails, whatever the other fields look like.
	_, err := authService.Signup(services.SignupParams{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "",
	})
	assert.ErrorIs(t, err, services.ErrPasswordRequired)

	_, err = authService.Signup(services.SignupParams{
		Username: "",
		Email:    "not-an-email",
		Password: "",
	})
	assert.ErrorIs(t, err, services.ErrPasswordRequired)

	// Nothing was ever persisted.
	_, err = mockRepo.GetByUsername("testuser")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuthService_SignupDuplicate(t *testing.T) {
	mockRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	_, err := authService.Signup(services.SignupParams{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)

	// The uniqueness violation propagates untranslated; the handler owns the
	// user-facing message.
	_, err = authService.Signup(services.SignupParams{
		Username: "testuser",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAuthService_Authenticate(t *testing.T) {
	mockRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	created, err := authService.Signup(services.SignupParams{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)

	// Matching credentials return the user.
	user, err := authService.Authenticate("testuser", "password123")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "testuser", user.Username)

	// Wrong password and unknown username both yield the sentinel, nothing else.
	_, err = authService.Authenticate("testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = authService.Authenticate("nonexistentuser", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	mockRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	user := &models.User{ID: 7, Username: "testuser", Email: "test@example.com", Password: "x"}
	token, err := authService.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// Garbage is rejected.
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// A token signed with another secret is rejected.
	otherService := services.NewAuthService(mockRepo, "other_secret")
	otherToken, err := otherService.GenerateToken(user)
	assert.NoError(t, err)
	_, err = authService.ValidateToken(otherToken)
	assert.Error(t, err)
}
