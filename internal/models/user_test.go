package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mshirk2/warbler/internal/models"
)

func TestUserString(t *testing.T) {
	u := &models.User{
		ID:       1,
		Username: "testuser",
		Email:    "test@test.com",
	}

	assert.Equal(t, "<User #1: testuser, test@test.com>", u.String())
	assert.NotEqual(t, "<User #2: testuser, test@test.com>", u.String())
}
