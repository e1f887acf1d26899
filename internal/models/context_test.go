package models

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUserContext(t *testing.T) {
	tests := []struct {
		name     string
		user     *User
		expected bool
	}{
		{
			name: "Valid user",
			user: &User{
				ID:       "user-123",
				Username: "testuser",
			},
			expected: true,
		},
		{
			name:     "Nil user",
			user:     nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newCtx := SetUserContext(context.Background(), tt.user)
			require.NotNil(t, newCtx)

			retrievedUser := GetUserFromContext(newCtx)
			if tt.expected {
				require.NotNil(t, retrievedUser)
				assert.Equal(t, tt.user.ID, retrievedUser.ID)
				assert.Equal(t, tt.user.ID, GetUserIDFromContext(newCtx))
				assert.Equal(t, tt.user.Username, GetUsernameFromContext(newCtx))
			} else {
				assert.Nil(t, retrievedUser)
				assert.Empty(t, GetUserIDFromContext(newCtx))
				assert.Empty(t, GetUsernameFromContext(newCtx))
			}
		})
	}
}

func TestSetGinUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/secrets", nil)

	user := &User{ID: "user-456", Username: "alice"}
	SetGinUser(c, user)

	// Both the gin context and the request context carry the identity
	assert.Same(t, user, GetUserFromContext(c))
	assert.Same(t, user, GetUserFromContext(c.Request.Context()))
	assert.Equal(t, "user-456", c.GetString("user_id"))
}

func TestGetUserFromContext_GinWithoutRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetUserFromContext(c))
}

func TestUser_ProviderID(t *testing.T) {
	googleID := "g-1"
	user := &User{GoogleID: &googleID}

	assert.Equal(t, "g-1", user.ProviderID(ProviderGoogle))
	assert.Empty(t, user.ProviderID(ProviderFacebook))
	assert.Empty(t, user.ProviderID("github"))
	assert.False(t, user.IsLocal())

	login := "bob"
	local := &User{Login: &login, PasswordHash: "$2a$10$hash"}
	assert.True(t, local.IsLocal())
}
