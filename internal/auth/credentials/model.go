package credentials

import "time"

// Credential is the stored local password for a user.
type Credential struct {
	ID           string
	UserID       string
	PasswordHash string
	HashVersion  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
