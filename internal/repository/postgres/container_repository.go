package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/browseterm/browseterm-db/internal/domain"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

// ContainerRepository is the pgxpool implementation of
// repository.ContainerRepository.
type ContainerRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewContainerRepository creates a ContainerRepository.
func NewContainerRepository(db *pgxpool.Pool, log *logger.Logger) *ContainerRepository {
	return &ContainerRepository{db: db, log: log}
}

const containerColumns = `id, user_id, image_id, name, status, cpu_limit, memory_limit,
	ip_address, port_mappings, environment_vars, kubernetes_id, saved_image,
	created_at, updated_at, deleted_at`

func scanContainer(row pgx.Row) (domain.Container, error) {
	var c domain.Container
	var ports, envs []byte
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.ImageID,
		&c.Name,
		&c.Status,
		&c.CPULimit,
		&c.MemoryLimit,
		&c.IPAddress,
		&ports,
		&envs,
		&c.KubernetesID,
		&c.SavedImage,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.DeletedAt,
	)
	if err != nil {
		return domain.Container{}, err
	}
	if len(ports) > 0 {
		if err := json.Unmarshal(ports, &c.PortMappings); err != nil {
			return domain.Container{}, fmt.Errorf("decode port_mappings: %w", err)
		}
	}
	if len(envs) > 0 {
		if err := json.Unmarshal(envs, &c.EnvironmentVars); err != nil {
			return domain.Container{}, fmt.Errorf("decode environment_vars: %w", err)
		}
	}
	return c, nil
}

func marshalJSONB(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Create inserts a container. Limits default when empty.
func (r *ContainerRepository) Create(ctx context.Context, container *domain.Container) error {
	if container.ID == uuid.Nil {
		container.ID = uuid.New()
	}
	if container.Status == "" {
		container.Status = domain.ContainerStatusPending
	}
	if container.CPULimit == "" {
		container.CPULimit = domain.DefaultCPULimit
	}
	if container.MemoryLimit == "" {
		container.MemoryLimit = domain.DefaultMemoryLimit
	}

	ports, err := marshalJSONB(container.PortMappings)
	if err != nil {
		return fmt.Errorf("encode port_mappings: %w", err)
	}
	envs, err := marshalJSONB(container.EnvironmentVars)
	if err != nil {
		return fmt.Errorf("encode environment_vars: %w", err)
	}

	query := `
		INSERT INTO containers (id, user_id, image_id, name, status, cpu_limit, memory_limit,
			ip_address, port_mappings, environment_vars, kubernetes_id, saved_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query,
		container.ID, container.UserID, container.ImageID, container.Name,
		container.Status, container.CPULimit, container.MemoryLimit,
		container.IPAddress, ports, envs, container.KubernetesID, container.SavedImage,
	).Scan(&container.CreatedAt, &container.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "container", container.Name)
	}

	r.log.Debug("Created container %s for user %s", container.Name, container.UserID)
	return nil
}

// GetByID returns the container with the given id.
func (r *ContainerRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Container, error) {
	query := fmt.Sprintf("SELECT %s FROM containers WHERE id = $1", containerColumns)
	c, err := scanContainer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Container{}, domain.NewNotFoundError("container", id.String())
		}
		return domain.Container{}, fmt.Errorf("failed to get container: %w", err)
	}
	return c, nil
}

// ListByUser returns the user's containers that are not soft-deleted.
func (r *ContainerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Container, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM containers WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at",
		containerColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query containers: %w", err)
	}
	defer rows.Close()

	var containers []domain.Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan container: %w", err)
		}
		containers = append(containers, c)
	}
	return containers, rows.Err()
}

// UpdateStatus moves the container to a new status. The update also fires
// the container_status_change NOTIFY trigger.
func (r *ContainerRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContainerStatus) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE containers SET status = $2, updated_at = now() WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("failed to update container status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("container", id.String())
	}
	return nil
}

// SoftDelete stamps deleted_at; the row stays until the owning user row is
// removed.
func (r *ContainerRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE containers SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete container: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("container", id.String())
	}
	return nil
}
