package domain

import (
	"time"

	"github.com/google/uuid"
)

// Image is a container image users can launch. The set of offered images is
// reference data managed by the state manager, so rows are soft-deleted via
// IsActive rather than removed.
type Image struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
