package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carenest/marketplace/internal/domain"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Chioma", lagos)
	provider := f.provider(t, "Ada", ikeja)

	name := " Chioma N. "
	updated, err := f.accounts.UpdateProfile(ctx, client, ProfileInput{Name: &name, Location: &ikeja})
	require.NoError(t, err)
	assert.Equal(t, "Chioma N.", updated.Name)
	assert.Equal(t, ikeja, updated.Location)
	assert.Equal(t, domain.RoleClient, updated.Role)

	bio := "Ten years with toddlers"
	_, err = f.accounts.UpdateProfile(ctx, client, ProfileInput{Bio: &bio})
	requireStatus(t, err, http.StatusBadRequest)

	available := false
	updated, err = f.accounts.UpdateProfile(ctx, provider, ProfileInput{Bio: &bio, Available: &available})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Provider.Bio)
	assert.False(t, updated.Provider.Available)
}

func TestSearchProviders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	infant := f.category(t, "Infant", 5000)

	result, err := f.verify(t, "234", "8011112222", "provider")
	require.NoError(t, err)
	name := "Ada Obi"
	_, err = f.accounts.UpdateProfile(ctx, result.Account, ProfileInput{Name: &name})
	require.NoError(t, err)
	f.provider(t, "Bola", lagos)
	f.client(t, "Ada Client", lagos)

	found, err := f.accounts.SearchProviders(ctx, ProviderSearch{Name: "ada"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, result.Account.ID, found[0].ID)

	found, err = f.accounts.SearchProviders(ctx, ProviderSearch{CategoryIDs: []string{infant.ID}})
	require.NoError(t, err)
	require.Len(t, found, 1)

	minRating := 1.0
	found, err = f.accounts.SearchProviders(ctx, ProviderSearch{MinRating: &minRating})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSetSuspended(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := &domain.Account{Role: domain.RoleAdmin}
	require.NoError(t, f.store.Accounts().Create(ctx, admin))
	client := f.client(t, "Chioma", lagos)

	updated, err := f.accounts.SetSuspended(ctx, admin, client.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Suspended)

	_, err = f.accounts.SetSuspended(ctx, admin, admin.ID, true)
	requireStatus(t, err, http.StatusBadRequest)

	role := domain.RoleClient
	clients, err := f.accounts.List(ctx, &role, 0, 0)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestCatalogValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.Create(ctx, CategoryInput{Name: " "})
	requireStatus(t, err, http.StatusBadRequest)

	f.category(t, "Infant", 100)
	_, err = f.catalog.Create(ctx, CategoryInput{Name: "Infant", Price: 1})
	requireStatus(t, err, http.StatusConflict)

	_, err = f.catalog.Update(ctx, "5c1b0d3e-7f21-4a53-8d9e-1a2b3c4d5e6f", CategoryInput{Name: "x"})
	requireStatus(t, err, http.StatusNotFound)
}
