// Package memory holds in-memory implementations of the reference-data
// repositories, used by state-manager tests and offline tooling.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/browseterm/browseterm-db/internal/domain"
)

// ImageRepository is a map-backed repository.ImageRepository.
type ImageRepository struct {
	mu     sync.RWMutex
	images map[string]domain.Image
}

// NewImageRepository creates an empty ImageRepository.
func NewImageRepository() *ImageRepository {
	return &ImageRepository{images: make(map[string]domain.Image)}
}

// Create inserts an image.
func (r *ImageRepository) Create(ctx context.Context, image *domain.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.images[image.Name]; exists {
		return domain.NewDuplicateError("image", "name", image.Name)
	}
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	now := time.Now().UTC()
	image.CreatedAt = now
	image.UpdatedAt = now
	r.images[image.Name] = *image
	return nil
}

// GetByName returns the image with the given name.
func (r *ImageRepository) GetByName(ctx context.Context, name string) (domain.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	img, exists := r.images[name]
	if !exists {
		return domain.Image{}, domain.NewNotFoundError("image", name)
	}
	return img, nil
}

// List returns images sorted by name.
func (r *ImageRepository) List(ctx context.Context, includeInactive bool) ([]domain.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	images := make([]domain.Image, 0, len(r.images))
	for _, img := range r.images {
		if !includeInactive && !img.IsActive {
			continue
		}
		images = append(images, img)
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}

// UpdateByName rewrites the image keyed by name.
func (r *ImageRepository) UpdateByName(ctx context.Context, image *domain.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.images[image.Name]
	if !exists {
		return domain.NewNotFoundError("image", image.Name)
	}
	image.ID = existing.ID
	image.CreatedAt = existing.CreatedAt
	image.UpdatedAt = time.Now().UTC()
	r.images[image.Name] = *image
	return nil
}

// SoftDeleteByName marks the image inactive.
func (r *ImageRepository) SoftDeleteByName(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	img, exists := r.images[name]
	if !exists {
		return domain.NewNotFoundError("image", name)
	}
	img.IsActive = false
	img.UpdatedAt = time.Now().UTC()
	r.images[name] = img
	return nil
}
