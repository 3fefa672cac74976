package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/browseterm/browseterm-db/internal/domain"
)

func TestSubscriptionTypeCreateAndLookup(t *testing.T) {
	repo := NewSubscriptionTypeRepository()
	ctx := context.Background()

	st := domain.SubscriptionType{Name: "Free Plan", Type: "free", IsActive: true}
	require.NoError(t, repo.Create(ctx, &st))
	assert.NotZero(t, st.ID)

	err := repo.Create(ctx, &domain.SubscriptionType{Name: "Free Plan", Type: "free2"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := repo.GetByType(ctx, "free")
	require.NoError(t, err)
	assert.Equal(t, st.ID, got.ID)

	_, err = repo.GetByType(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubscriptionTypeDeleteRespectsReferences(t *testing.T) {
	repo := NewSubscriptionTypeRepository()
	ctx := context.Background()

	st := domain.SubscriptionType{Name: "Basic Plan", Type: "basic", IsActive: true}
	require.NoError(t, repo.Create(ctx, &st))

	repo.MarkReferenced(st.ID)
	err := repo.Delete(ctx, st.ID)
	assert.ErrorIs(t, err, domain.ErrRestricted)

	other := domain.SubscriptionType{Name: "Trial", Type: "trial", IsActive: true}
	require.NoError(t, repo.Create(ctx, &other))
	require.NoError(t, repo.Delete(ctx, other.ID))
	_, err = repo.GetByID(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
