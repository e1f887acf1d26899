package templates

import "github.com/go-authgate/secrets/internal/models"

// BaseProps contains common properties shared across all pages
type BaseProps struct {
	Title    string
	Username string // empty when unauthenticated
	Flash    string
}

// OAuthProvider represents an OAuth provider configuration
type OAuthProvider struct {
	Name        string
	DisplayName string
}

// ===== Page Props Structures =====

type HomePageProps struct {
	BaseProps
}

type RegisterPageProps struct {
	BaseProps
}

// LoginPageProps contains properties for the login page
type LoginPageProps struct {
	BaseProps
	OAuthProviders []OAuthProvider
}

// SecretsPageProps lists every stored secret without its author
type SecretsPageProps struct {
	BaseProps
	Secrets []models.Secret
}

type SubmitPageProps struct {
	BaseProps
	MaxLength int
}

type PasswordPageProps struct {
	BaseProps
}

// SuperSecretPageProps carries the message revealed by the gate
type SuperSecretPageProps struct {
	BaseProps
	Message string
}
