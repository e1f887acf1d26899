package handlers

import (
	"errors"
	"net/http"

	"github.com/go-authgate/secrets/internal/logutil"
	"github.com/go-authgate/secrets/internal/models"
	"github.com/go-authgate/secrets/internal/services"
	"github.com/go-authgate/secrets/internal/templates"

	"github.com/gin-gonic/gin"
)

const pathSubmit = "/submit"

type SecretsHandler struct {
	secretService *services.SecretService
}

func NewSecretsHandler(ss *services.SecretService) *SecretsHandler {
	return &SecretsHandler{secretService: ss}
}

// Home renders the landing page
func (h *SecretsHandler) Home(c *gin.Context) {
	templates.RenderTempl(c, http.StatusOK, templates.HomePage(templates.HomePageProps{
		BaseProps: baseProps(c),
	}))
}

// ListSecrets shows every secret from every user. A store failure sends the
// visitor back to the home page.
func (h *SecretsHandler) ListSecrets(c *gin.Context) {
	secrets, err := h.secretService.List(c.Request.Context())
	if err != nil {
		log := logutil.GetOrDefault(c.Request.Context())
		log.Error().Err(err).Msg("list secrets")
		redirectWithFlash(c, pathHome, "Secrets are unavailable right now.")
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.SecretsPage(templates.SecretsPageProps{
		BaseProps: baseProps(c),
		Secrets:   secrets,
	}))
}

func (h *SecretsHandler) SubmitPage(c *gin.Context) {
	templates.RenderTempl(c, http.StatusOK, templates.SubmitPage(templates.SubmitPageProps{
		BaseProps: baseProps(c),
		MaxLength: models.MaxSecretLength,
	}))
}

// Submit stores a secret for the signed-in user
func (h *SecretsHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	_, err := h.secretService.Submit(ctx, models.GetUserIDFromContext(c), c.PostForm("secret"))
	if err != nil {
		msg := "Secrets must be between 1 and 1000 characters."
		if !errors.Is(err, services.ErrInvalidSecret) {
			log := logutil.GetOrDefault(ctx)
			log.Error().Err(err).Msg("submit secret")
			msg = "Your secret could not be saved. Please try again."
		}
		redirectWithFlash(c, pathSubmit, msg)
		return
	}
	c.Redirect(http.StatusFound, pathSecrets)
}
