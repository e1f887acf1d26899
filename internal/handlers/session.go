package handlers

import (
	"net/http"

	"github.com/go-authgate/secrets/internal/logutil"
	"github.com/go-authgate/secrets/internal/models"
	"github.com/go-authgate/secrets/internal/session"
	"github.com/go-authgate/secrets/internal/templates"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// baseProps collects the per-request page state and consumes pending flash
// messages. Only the most recent one is shown.
func baseProps(c *gin.Context) templates.BaseProps {
	props := templates.BaseProps{Username: models.GetUsernameFromContext(c)}

	s := sessions.Default(c)
	if flashes := s.Flashes(); len(flashes) > 0 {
		props.Flash, _ = flashes[len(flashes)-1].(string)
		if err := s.Save(); err != nil {
			log := logutil.GetOrDefault(c.Request.Context())
			log.Warn().Err(err).Msg("consume flash")
		}
	}
	return props
}

// redirectWithFlash stores message for the next rendered page and redirects.
func redirectWithFlash(c *gin.Context, location, message string) {
	s := sessions.Default(c)
	s.AddFlash(message)
	if err := s.Save(); err != nil {
		log := logutil.GetOrDefault(c.Request.Context())
		log.Warn().Err(err).Msg("save flash")
	}
	c.Redirect(http.StatusFound, location)
}

// establishSession replaces the session contents with the user's id under a
// freshly issued session id.
func establishSession(c *gin.Context, user *models.User) error {
	s := sessions.Default(c)
	if err := session.Regenerate(c.Request, s); err != nil {
		return err
	}
	s.Clear()
	s.Set(session.KeyUserID, user.ID)
	return s.Save()
}
