package domain

import (
	"time"

	"github.com/google/uuid"
)

// Default per-container resource limits, also used when seeding
// subscription types.
const (
	DefaultCPULimit    = "1"
	DefaultMemoryLimit = "1GB"
)

// ContainerStatus mirrors the Kubernetes pod phases.
type ContainerStatus string

const (
	ContainerStatusPending   ContainerStatus = "pending"
	ContainerStatusRunning   ContainerStatus = "running"
	ContainerStatusSucceeded ContainerStatus = "succeeded"
	ContainerStatusFailed    ContainerStatus = "failed"
	ContainerStatusUnknown   ContainerStatus = "unknown"
)

// Container represents a user's terminal container. The row is created
// before the orchestrator reports back, so KubernetesID is filled in later;
// SavedImage points at a snapshot used to restore a container that died.
type Container struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	ImageID         *uuid.UUID        `json:"image_id,omitempty"`
	Name            string            `json:"name"`
	Status          ContainerStatus   `json:"status"`
	CPULimit        string            `json:"cpu_limit"`
	MemoryLimit     string            `json:"memory_limit"`
	IPAddress       *string           `json:"ip_address,omitempty"`
	PortMappings    map[string]int    `json:"port_mappings,omitempty"`
	EnvironmentVars map[string]string `json:"environment_vars,omitempty"`
	KubernetesID    *string           `json:"kubernetes_id,omitempty"`
	SavedImage      *string           `json:"saved_image,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       *time.Time        `json:"deleted_at,omitempty"`
}

// Deleted reports whether the container has been soft-deleted.
func (c *Container) Deleted() bool {
	return c.DeletedAt != nil
}
