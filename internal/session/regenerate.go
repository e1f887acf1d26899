package session

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	gsessions "github.com/gorilla/sessions"
)

var errNoUnderlyingSession = errors.New("session: underlying session not available")

type gorillaAccessor interface {
	Session() *gsessions.Session
}

type destroyer interface {
	Destroy(r *http.Request, session *gsessions.Session) error
}

// Regenerate discards the server-side entry behind s and clears its id, so
// the next Save issues a new id. Values are kept. Call it at login: an id
// issued before authentication must never become an authenticated one.
func Regenerate(r *http.Request, s sessions.Session) error {
	accessor, ok := s.(gorillaAccessor)
	if !ok {
		return errNoUnderlyingSession
	}
	gs := accessor.Session()
	if gs == nil {
		return errNoUnderlyingSession
	}

	if d, ok := gs.Store().(destroyer); ok {
		if err := d.Destroy(r, gs); err != nil {
			return err
		}
	}
	gs.ID = ""
	gs.IsNew = true
	return nil
}
