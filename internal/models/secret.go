package models

import "time"

// MaxSecretLength is the maximum number of characters a secret may hold.
const MaxSecretLength = 1000

// Secret is a free-text entry shared with every authenticated user.
// AuthorID references the submitting user without a cascading foreign key.
type Secret struct {
	ID        string    `gorm:"primaryKey"`
	Text      string    `gorm:"type:text;not null"`
	AuthorID  string    `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"index"`
}
