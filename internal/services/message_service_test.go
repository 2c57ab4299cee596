package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mshirk2/warbler/internal/models"
	"github.com/mshirk2/warbler/internal/services"
)

func TestMessageService_Create(t *testing.T) {
	db := setupDB(t)
	_, messageService := setupServices(db)

	a := seedUser(t, db, 123, "testuser1", "test1@test.com")
	seedUser(t, db, 456, "testuser2", "test2@test.com")

	_, err := messageService.Create(a.ID, "testtest")
	assert.NoError(t, err)

	messages, err := messageService.ByUser(a.ID)
	assert.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, "testtest", messages[0].Text)
	assert.Equal(t, a.ID, messages[0].UserID)
	assert.False(t, messages[0].CreatedAt.IsZero())
}

func TestMessageService_CreateValidation(t *testing.T) {
	db := setupDB(t)
	_, messageService := setupServices(db)

	a := seedUser(t, db, 1, "testuser", "test@test.com")

	_, err := messageService.Create(a.ID, "")
	assert.ErrorIs(t, err, services.ErrMessageText)

	_, err = messageService.Create(a.ID, "   ")
	assert.ErrorIs(t, err, services.ErrMessageText)

	_, err = messageService.Create(a.ID, strings.Repeat("x", models.MaxMessageLength+1))
	assert.ErrorIs(t, err, services.ErrMessageText)

	// Exactly at the bound is fine.
	_, err = messageService.Create(a.ID, strings.Repeat("x", models.MaxMessageLength))
	assert.NoError(t, err)
}

func TestMessageService_GetByID(t *testing.T) {
	db := setupDB(t)
	_, messageService := setupServices(db)

	a := seedUser(t, db, 1, "testuser", "test@test.com")
	created, err := messageService.Create(a.ID, "testtest")
	assert.NoError(t, err)

	message, err := messageService.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "testtest", message.Text)
	assert.Equal(t, "testuser", message.User.Username)

	_, err = messageService.GetByID(99999999)
	assert.ErrorIs(t, err, services.ErrMessageNotFound)
}

func TestMessageService_ToggleLikeParity(t *testing.T) {
	db := setupDB(t)
	_, messageService := setupServices(db)

	a := seedUser(t, db, 1, "testuser1", "test1@test.com")
	b := seedUser(t, db, 2, "testuser2", "test2@test.com")

	message, err := messageService.Create(a.ID, "testtest")
	assert.NoError(t, err)

	countLikes := func() int64 {
		var count int64
		db.Model(&models.Like{}).Where("user_id = ? AND message_id = ?", b.ID, message.ID).Count(&count)
		return count
	}

	// Odd number of toggles: exactly one like row.
	liked, err := messageService.ToggleLike(b.ID, message.ID)
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), countLikes())

	// Even number: back to none.
	liked, err = messageService.ToggleLike(b.ID, message.ID)
	assert.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, countLikes())

	liked, err = messageService.ToggleLike(b.ID, message.ID)
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), countLikes())
}

func TestMessageService_LikeOwnMessage(t *testing.T) {
	db := setupDB(t)
	_, messageService := setupServices(db)

	a := seedUser(t, db, 1, "testuser", "test@test.com")
	message, err := messageService.Create(a.ID, "testtest")
	assert.NoError(t, err)

	_, err = messageService.ToggleLike(a.ID, message.ID)
	assert.ErrorIs(t, err, services.ErrOwnMessageLike)

	var count int64
	db.Model(&models.Like{}).Count(&count)
	assert.Zero(t, count)
}

func TestMessageService_ToggleLikeNotFound(t *testing.T) {
	db := setupDB(t)
	_, messageService := setupServices(db)

	a := seedUser(t, db, 1, "testuser", "test@test.com")

	_, err := messageService.ToggleLike(a.ID, 99999)
	assert.ErrorIs(t, err, services.ErrMessageNotFound)
}

func TestMessageService_DeleteOwnership(t *testing.T) {
	db := setupDB(t)
	_, messageService := setupServices(db)

	a := seedUser(t, db, 1, "testuser1", "test1@test.com")
	b := seedUser(t, db, 2, "testuser2", "test2@test.com")

	message, err := messageService.Create(a.ID, "testtest")
	assert.NoError(t, err)

	// Someone else cannot delete it, and it stays.
	err = messageService.Delete(message.ID, b.ID)
	assert.ErrorIs(t, err, services.ErrNotOwner)

	still, err := messageService.GetByID(message.ID)
	assert.NoError(t, err)
	assert.Equal(t, "testtest", still.Text)

	// The owner can; likes on the message go with it.
	_, err = messageService.ToggleLike(b.ID, message.ID)
	assert.NoError(t, err)

	assert.NoError(t, messageService.Delete(message.ID, a.ID))

	_, err = messageService.GetByID(message.ID)
	assert.ErrorIs(t, err, services.ErrMessageNotFound)

	var likes int64
	db.Model(&models.Like{}).Count(&likes)
	assert.Zero(t, likes)

	// Deleting a missing message reports not-found.
	assert.ErrorIs(t, messageService.Delete(message.ID, a.ID), services.ErrMessageNotFound)
}

func TestMessageService_Timeline(t *testing.T) {
	db := setupDB(t)
	userService, messageService := setupServices(db)

	a := seedUser(t, db, 1, "testuser1", "test1@test.com")
	b := seedUser(t, db, 2, "testuser2", "test2@test.com")
	c := seedUser(t, db, 3, "testuser3", "test3@test.com")

	_, err := messageService.Create(a.ID, "from a")
	assert.NoError(t, err)
	_, err = messageService.Create(b.ID, "from b")
	assert.NoError(t, err)
	_, err = messageService.Create(c.ID, "from c")
	assert.NoError(t, err)

	assert.NoError(t, userService.Follow(a.ID, b.ID))

	timeline, err := messageService.Timeline(a.ID)
	assert.NoError(t, err)
	assert.Len(t, timeline, 2)

	texts := []string{timeline[0].Text, timeline[1].Text}
	assert.Contains(t, texts, "from a")
	assert.Contains(t, texts, "from b")
	assert.NotContains(t, texts, "from c")

	// Newest first: the later message leads.
	assert.Equal(t, "from b", timeline[0].Text)
}
