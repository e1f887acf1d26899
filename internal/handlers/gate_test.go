package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate(t *testing.T) {
	env := newTestEnv(t, nil)
	b := newBrowser(t, env.router())
	_ = b.post("/register", credentials("grace", "pw"))

	w := b.get("/password")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="superPassword"`)

	w = b.post("/password", url.Values{"superPassword": {"nope"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/password", w.Header().Get("Location"))
	assert.Contains(t, b.get("/password").Body.String(), "Wrong password.")

	w = b.post("/password", url.Values{"superPassword": {"open-sesame"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "the cake is a lie")
}

func TestGate_Disabled(t *testing.T) {
	env := newTestEnv(t, nil)
	env.handlers.gate = NewGateHandler(newDisabledGate())
	b := newBrowser(t, env.router())
	_ = b.post("/register", credentials("heidi", "pw"))

	w := b.post("/password", url.Values{"superPassword": {""}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/password", w.Header().Get("Location"))
}
