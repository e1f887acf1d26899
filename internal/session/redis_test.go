package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookieName = "secrets_session"

func setupRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, []byte("test-secret"))
	store.Options(CookieOptions(3600, false))
	return store, mr
}

func setupRouter(store sessions.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(testCookieName, store))

	r.GET("/set", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(KeyUserID, c.Query("id"))
		s.AddFlash("welcome")
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET("/get", func(c *gin.Context) {
		s := sessions.Default(c)
		id, _ := s.Get(KeyUserID).(string)
		var flash string
		if flashes := s.Flashes(); len(flashes) > 0 {
			flash, _ = flashes[0].(string)
		}
		_ = s.Save()
		c.String(http.StatusOK, id+"|"+flash)
	})
	r.GET("/clear", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Clear()
		s.Options(sessions.Options{Path: "/", MaxAge: -1})
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(t *testing.T, r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, path, nil)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, mr := setupRedisStore(t)
	r := setupRouter(store)

	w := do(t, r, "/set?id=user-1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	// The cookie carries only the signed id, values live in Redis
	assert.NotContains(t, cookies[0].Value, "user-1")
	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], defaultKeyPrefix))
	assert.Equal(t, time.Hour, mr.TTL(keys[0]))

	w = do(t, r, "/get", cookies)
	assert.Equal(t, "user-1|welcome", w.Body.String())

	// Flashes are consumed once
	w = do(t, r, "/get", cookies)
	assert.Equal(t, "user-1|", w.Body.String())
}

func TestRedisStore_ClearDeletesEntry(t *testing.T) {
	store, mr := setupRedisStore(t)
	r := setupRouter(store)

	cookies := do(t, r, "/set?id=user-2", nil).Result().Cookies()
	require.Len(t, mr.Keys(), 1)

	w := do(t, r, "/clear", cookies)
	assert.Empty(t, mr.Keys())
	expired := w.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Negative(t, expired[0].MaxAge)

	// Replaying the old cookie finds nothing
	w = do(t, r, "/get", cookies)
	assert.Equal(t, "|", w.Body.String())
}

func TestRedisStore_TamperedCookie(t *testing.T) {
	store, _ := setupRedisStore(t)
	r := setupRouter(store)

	w := do(t, r, "/get", []*http.Cookie{{Name: testCookieName, Value: "forged"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "|", w.Body.String())
}

func TestRedisStore_ExpiredEntry(t *testing.T) {
	store, mr := setupRedisStore(t)
	r := setupRouter(store)

	cookies := do(t, r, "/set?id=user-3", nil).Result().Cookies()
	mr.FastForward(2 * time.Hour)

	w := do(t, r, "/get", cookies)
	assert.Equal(t, "|", w.Body.String())
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := setupRedisStore(t)
	r := setupRouter(store)

	cookies := do(t, r, "/set?id=user-4", nil).Result().Cookies()
	mr.Close()

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	_, err := store.New(req, testCookieName)
	assert.Error(t, err)
}
