package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthProvider identifies the external identity provider a user signed up with.
type AuthProvider string

const (
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderGithub AuthProvider = "github"
)

// Valid reports whether the provider is one we accept.
func (p AuthProvider) Valid() bool {
	switch p {
	case AuthProviderGoogle, AuthProviderGithub:
		return true
	}
	return false
}

// User represents an application user. Users are soft-deleted by flipping
// IsActive; rows are only physically removed by operator tooling, and the
// orders table restricts that.
type User struct {
	ID         uuid.UUID    `json:"id"`
	Email      string       `json:"email"`
	Provider   AuthProvider `json:"provider"`
	ProviderID string       `json:"provider_id"`
	IsActive   bool         `json:"is_active"`
	LastLogin  *time.Time   `json:"last_login,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
