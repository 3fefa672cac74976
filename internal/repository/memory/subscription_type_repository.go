package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/browseterm/browseterm-db/internal/domain"
)

// SubscriptionTypeRepository is a map-backed
// repository.SubscriptionTypeRepository keyed by display name.
type SubscriptionTypeRepository struct {
	mu    sync.RWMutex
	types map[string]domain.SubscriptionType
	// referenced marks plans that cannot be hard-deleted, standing in
	// for the delete-restrict foreign keys.
	referenced map[uuid.UUID]bool
}

// NewSubscriptionTypeRepository creates an empty repository.
func NewSubscriptionTypeRepository() *SubscriptionTypeRepository {
	return &SubscriptionTypeRepository{
		types:      make(map[string]domain.SubscriptionType),
		referenced: make(map[uuid.UUID]bool),
	}
}

// MarkReferenced makes Delete fail for the plan, the way a referencing
// subscription or order would in Postgres.
func (r *SubscriptionTypeRepository) MarkReferenced(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.referenced[id] = true
}

// Create inserts a plan.
func (r *SubscriptionTypeRepository) Create(ctx context.Context, st *domain.SubscriptionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[st.Name]; exists {
		return domain.NewDuplicateError("subscription type", "name", st.Name)
	}
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	now := time.Now().UTC()
	st.CreatedAt = now
	st.UpdatedAt = now
	r.types[st.Name] = *st
	return nil
}

// GetByID returns the plan with the given id.
func (r *SubscriptionTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.SubscriptionType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, st := range r.types {
		if st.ID == id {
			return st, nil
		}
	}
	return domain.SubscriptionType{}, domain.NewNotFoundError("subscription type", id.String())
}

// GetByType returns the plan with the given internal type identifier.
func (r *SubscriptionTypeRepository) GetByType(ctx context.Context, typ string) (domain.SubscriptionType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, st := range r.types {
		if st.Type == typ {
			return st, nil
		}
	}
	return domain.SubscriptionType{}, domain.NewNotFoundError("subscription type", typ)
}

// List returns plans sorted by amount.
func (r *SubscriptionTypeRepository) List(ctx context.Context, includeInactive bool) ([]domain.SubscriptionType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.SubscriptionType, 0, len(r.types))
	for _, st := range r.types {
		if !includeInactive && !st.IsActive {
			continue
		}
		types = append(types, st)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Amount < types[j].Amount })
	return types, nil
}

// UpdateByName rewrites the plan keyed by name.
func (r *SubscriptionTypeRepository) UpdateByName(ctx context.Context, st *domain.SubscriptionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.types[st.Name]
	if !exists {
		return domain.NewNotFoundError("subscription type", st.Name)
	}
	st.ID = existing.ID
	st.CreatedAt = existing.CreatedAt
	st.UpdatedAt = time.Now().UTC()
	r.types[st.Name] = *st
	return nil
}

// SoftDeleteByName retires the plan.
func (r *SubscriptionTypeRepository) SoftDeleteByName(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, exists := r.types[name]
	if !exists {
		return domain.NewNotFoundError("subscription type", name)
	}
	st.IsActive = false
	st.UpdatedAt = time.Now().UTC()
	r.types[name] = st
	return nil
}

// Delete removes the plan unless it is referenced.
func (r *SubscriptionTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.referenced[id] {
		return domain.NewRestrictedError("subscription type", id.String())
	}
	for name, st := range r.types {
		if st.ID == id {
			delete(r.types, name)
			return nil
		}
	}
	return domain.NewNotFoundError("subscription type", id.String())
}
