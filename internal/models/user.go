package models

import (
	"time"
)

// Provider names used for federated accounts.
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

type User struct {
	ID       string `gorm:"primaryKey"`
	Username string `gorm:"index;not null"` // Display name; not unique for OAuth accounts

	// Login is set only for locally registered accounts and is unique.
	Login        *string `gorm:"uniqueIndex"`
	PasswordHash string  // OAuth-only users have empty password

	// External identity support
	GoogleID   *string `gorm:"uniqueIndex"`
	FacebookID *string `gorm:"uniqueIndex"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLocal returns true if the user registered with a username and password
func (u *User) IsLocal() bool {
	return u.Login != nil && u.PasswordHash != ""
}

// ProviderID returns the external id stored for provider, or "" if unset.
func (u *User) ProviderID(provider string) string {
	var id *string
	switch provider {
	case ProviderGoogle:
		id = u.GoogleID
	case ProviderFacebook:
		id = u.FacebookID
	}
	if id == nil {
		return ""
	}
	return *id
}
