package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether s is one of the closed set of account roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleUser
}

// Account models a registered actor in the system.
type Account struct {
	ID           string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"user_type"`
	AccessToken  string    `json:"access_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
