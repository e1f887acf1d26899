package session

import (
	"context"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	gsessions "github.com/gorilla/sessions"
	"github.com/gorilla/securecookie"
)

// errNotFound is returned by a backend for a missing or expired entry.
var errNotFound = errors.New("session: entry not found")

// backend persists encoded session values by id.
type backend interface {
	load(ctx context.Context, id string) ([]byte, error)
	save(ctx context.Context, id string, data []byte, ttl time.Duration) error
	delete(ctx context.Context, id string) error
}

// Store is a gin-contrib/sessions store that keeps values on the server.
// The cookie only carries the signed session id, and an entry lives for
// MaxAge seconds.
type Store struct {
	backend backend
	codecs  []securecookie.Codec
	options *gsessions.Options
}

var _ sessions.Store = (*Store)(nil)

func newStore(b backend, keyPairs ...[]byte) *Store {
	s := &Store{
		backend: b,
		codecs:  securecookie.CodecsFromPairs(keyPairs...),
	}
	s.Options(CookieOptions(86400, false))
	return s
}

// Options implements sessions.Store. MaxAge also bounds how old a signed
// cookie may be.
func (s *Store) Options(opts sessions.Options) {
	s.options = opts.ToGorillaOptions()
	if opts.MaxAge <= 0 {
		return
	}
	for _, codec := range s.codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(opts.MaxAge)
		}
	}
}

// Get returns the session cached for the request, loading it on first use.
func (s *Store) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, tampered or
// expired cookie yields a fresh empty session.
func (s *Store) New(r *http.Request, name string) (*gsessions.Session, error) {
	session := gsessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, cookie.Value, &session.ID, s.codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	data, err := s.backend.load(r.Context(), session.ID)
	if errors.Is(err, errNotFound) {
		// Unknown id: start over rather than resurrecting it
		session.ID = ""
		return session, nil
	}
	if err != nil {
		return session, err
	}
	values, err := decodeValues(data)
	if err != nil {
		session.ID = ""
		return session, err
	}
	session.Values = values
	session.IsNew = false
	return session, nil
}

// Save persists the session and writes the cookie. A non-positive MaxAge
// deletes the server-side entry and expires the cookie.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	if session.Options.MaxAge <= 0 {
		if err := s.Destroy(r, session); err != nil {
			return err
		}
		http.SetCookie(w, gsessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
			"=",
		)
	}
	data, err := encodeValues(session.Values)
	if err != nil {
		return err
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.backend.save(r.Context(), session.ID, data, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gsessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Destroy removes the server-side entry without touching the cookie.
func (s *Store) Destroy(r *http.Request, session *gsessions.Session) error {
	if session.ID == "" {
		return nil
	}
	if err := s.backend.delete(r.Context(), session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// encodeValues serializes session values as JSON. Only string keys are
// supported.
func encodeValues(values map[any]any) ([]byte, error) {
	m := make(map[string]any, len(values))
	for k, v := range values {
		ks, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("session key %v is not a string", k)
		}
		m[ks] = v
	}
	return json.Marshal(m)
}

func decodeValues(data []byte) (map[any]any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	values := make(map[any]any, len(m))
	for k, v := range m {
		values[k] = v
	}
	return values, nil
}
