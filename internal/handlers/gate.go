package handlers

import (
	"net/http"

	"github.com/go-authgate/secrets/internal/services"
	"github.com/go-authgate/secrets/internal/templates"

	"github.com/gin-gonic/gin"
)

const pathPassword = "/password"

// GateHandler serves the password protected message
type GateHandler struct {
	gate *services.GateService
}

func NewGateHandler(gate *services.GateService) *GateHandler {
	return &GateHandler{gate: gate}
}

func (h *GateHandler) PasswordPage(c *gin.Context) {
	templates.RenderTempl(c, http.StatusOK, templates.PasswordPage(templates.PasswordPageProps{
		BaseProps: baseProps(c),
	}))
}

// Reveal renders the message on a matching password and sends every other
// attempt back to the form.
func (h *GateHandler) Reveal(c *gin.Context) {
	message, err := h.gate.Reveal(c.PostForm("superPassword"))
	if err != nil {
		redirectWithFlash(c, pathPassword, "Wrong password.")
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.SuperSecretPage(templates.SuperSecretPageProps{
		BaseProps: baseProps(c),
		Message:   message,
	}))
}
