package auth

import "time"

// Account represents a teacher account able to sign in.
type Account struct {
	ID              string
	Email           string
	Name            string
	PasswordHash    string
	Role            string
	HomeroomClassID string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
