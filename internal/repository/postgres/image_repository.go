package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/browseterm/browseterm-db/internal/domain"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

// ImageRepository is the pgxpool implementation of repository.ImageRepository.
type ImageRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewImageRepository creates an ImageRepository.
func NewImageRepository(db *pgxpool.Pool, log *logger.Logger) *ImageRepository {
	return &ImageRepository{db: db, log: log}
}

const imageColumns = "id, name, image, is_active, created_at, updated_at"

func scanImage(row pgx.Row) (domain.Image, error) {
	var img domain.Image
	err := row.Scan(&img.ID, &img.Name, &img.Image, &img.IsActive, &img.CreatedAt, &img.UpdatedAt)
	return img, err
}

// Create inserts an image.
func (r *ImageRepository) Create(ctx context.Context, image *domain.Image) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	query := `
		INSERT INTO images (id, name, image, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, image.ID, image.Name, image.Image, image.IsActive).
		Scan(&image.CreatedAt, &image.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "image", image.Name)
	}
	r.log.Debug("Created image %s", image.Name)
	return nil
}

// GetByName returns the image with the given name.
func (r *ImageRepository) GetByName(ctx context.Context, name string) (domain.Image, error) {
	query := fmt.Sprintf("SELECT %s FROM images WHERE name = $1", imageColumns)
	img, err := scanImage(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Image{}, domain.NewNotFoundError("image", name)
		}
		return domain.Image{}, fmt.Errorf("failed to get image: %w", err)
	}
	return img, nil
}

// List returns images, excluding soft-deleted ones unless includeInactive.
func (r *ImageRepository) List(ctx context.Context, includeInactive bool) ([]domain.Image, error) {
	query := fmt.Sprintf("SELECT %s FROM images", imageColumns)
	if !includeInactive {
		query += " WHERE is_active"
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	var images []domain.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// UpdateByName rewrites the image reference and active flag, keyed by name.
// The state manager diffs reference data by name, so name is the handle.
func (r *ImageRepository) UpdateByName(ctx context.Context, image *domain.Image) error {
	query := `
		UPDATE images
		SET image = $2, is_active = $3, updated_at = now()
		WHERE name = $1
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, image.Name, image.Image, image.IsActive).
		Scan(&image.ID, &image.CreatedAt, &image.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("image", image.Name)
		}
		return fmt.Errorf("failed to update image: %w", err)
	}
	return nil
}

// SoftDeleteByName marks the image inactive.
func (r *ImageRepository) SoftDeleteByName(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE images SET is_active = FALSE, updated_at = now() WHERE name = $1", name)
	if err != nil {
		return fmt.Errorf("failed to soft-delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("image", name)
	}
	return nil
}
