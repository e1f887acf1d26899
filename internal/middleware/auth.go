package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-authgate/secrets/internal/logutil"
	"github.com/go-authgate/secrets/internal/models"
	"github.com/go-authgate/secrets/internal/services"
	"github.com/go-authgate/secrets/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LoginPath is where unauthenticated requests to protected routes are sent.
const LoginPath = "/login"

type userLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// LoadIdentity restores the user referenced by the session into the request
// context. Requests without a user id never reach the store. A user id that
// no longer resolves clears the session.
func LoadIdentity(users userLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		userID, _ := s.Get(session.KeyUserID).(string)
		if userID == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		user, err := users.GetUserByID(ctx, userID)
		switch {
		case err == nil:
			models.SetGinUser(c, user)
		case errors.Is(err, services.ErrUserNotFound):
			s.Clear()
			if err := s.Save(); err != nil {
				log := logutil.GetOrDefault(ctx)
				log.Error().Err(err).Msg("clear stale session")
			}
		default:
			log := logutil.GetOrDefault(ctx)
			log.Warn().Err(err).Msg("restore session identity")
		}

		c.Next()
	}
}

// RequireAuth redirects to the login page unless LoadIdentity restored a user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if models.GetUserFromContext(c) == nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
