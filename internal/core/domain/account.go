package domain

import "time"

// Account models a registered user. Emails are stored lower-cased and are
// unique across all accounts. Identity fields never change after creation.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
