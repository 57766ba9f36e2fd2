package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carenest/marketplace/internal/domain"
)

func (f *fixture) verify(t *testing.T, code, number, role string) (*AuthResult, error) {
	t.Helper()
	session, err := f.sessions.Issue(context.Background(), code, number)
	require.NoError(t, err)
	return f.auth.Authenticate(context.Background(), AuthenticateInput{
		Code:          code,
		Number:        number,
		OTP:           session.OTP,
		RequestedRole: role,
	})
}

func TestAuthenticateProvisionsProviderWithCatalogSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	infant := f.category(t, "Infant", 5000)
	toddler := f.category(t, "Toddler", 4000)

	session, err := f.sessions.Issue(ctx, "234", "8011112222")
	require.NoError(t, err)
	result, err := f.auth.Authenticate(ctx, AuthenticateInput{
		Code:          "234",
		Number:        "8011112222",
		OTP:           session.OTP,
		RequestedRole: "provider",
	})
	require.NoError(t, err)

	assert.True(t, result.NewAccount)
	assert.Equal(t, domain.RoleProvider, result.Account.Role)
	require.NotNil(t, result.Account.Provider)
	assert.ElementsMatch(t,
		[]domain.CategorySnapshot{infant.Snapshot(), toddler.Snapshot()},
		result.Account.Provider.Categories)

	claims, err := f.tokens.ParseToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.Account.ID, claims.AccountID())

	_, err = f.auth.Authenticate(ctx, AuthenticateInput{
		Code:   "234",
		Number: "8011112222",
		OTP:    session.OTP,
	})
	de := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "OTP is invalid for +2348011112222", de.Message)
}

func TestProviderSnapshotIsNotLive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	infant := f.category(t, "Infant", 5000)

	result, err := f.verify(t, "234", "8011112222", "Provider")
	require.NoError(t, err)

	_, err = f.catalog.Update(ctx, infant.ID, CategoryInput{Name: "Newborn", Price: 6000})
	require.NoError(t, err)
	f.category(t, "Toddler", 4000)

	loaded, err := f.accounts.Get(ctx, result.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategorySnapshot{{ID: infant.ID, Name: "Infant"}}, loaded.Provider.Categories)
}

func TestAuthenticateDefaultsToClientAndReusesAccount(t *testing.T) {
	f := newFixture(t)

	first, err := f.verify(t, "1", "5550100", "")
	require.NoError(t, err)
	assert.True(t, first.NewAccount)
	assert.Equal(t, domain.RoleClient, first.Account.Role)
	assert.Nil(t, first.Account.Provider)

	second, err := f.verify(t, "1", "5550100", "provider")
	require.NoError(t, err)
	assert.False(t, second.NewAccount)
	assert.Equal(t, first.Account.ID, second.Account.ID)
	assert.Equal(t, domain.RoleClient, second.Account.Role)
}

func TestAuthenticateRejectsUnknownRoleWithoutConsumingCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.sessions.Issue(ctx, "234", "8011112222")
	require.NoError(t, err)

	for _, role := range []string{"admin", "superuser"} {
		_, err = f.auth.Authenticate(ctx, AuthenticateInput{
			Code: "234", Number: "8011112222", OTP: session.OTP, RequestedRole: role,
		})
		requireStatus(t, err, http.StatusBadRequest)
	}

	result, err := f.auth.Authenticate(ctx, AuthenticateInput{Code: "234", Number: "8011112222", OTP: session.OTP})
	require.NoError(t, err)
	assert.True(t, result.NewAccount)
}

func TestAuthenticateRejectsSuspendedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.verify(t, "234", "8011112222", "")
	require.NoError(t, err)
	_, err = f.accounts.SetSuspended(ctx, nil, first.Account.ID, true)
	require.NoError(t, err)

	_, err = f.verify(t, "234", "8011112222", "")
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestAdminBootstrapAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.auth.EnsureAdmin(ctx, "admin@carenest.test", "s3cret!"))
	require.NoError(t, f.auth.EnsureAdmin(ctx, "admin@carenest.test", "s3cret!"))

	result, err := f.auth.LoginAdmin(ctx, "ADMIN@carenest.test", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, result.Account.Role)

	_, err = f.auth.LoginAdmin(ctx, "admin@carenest.test", "wrong")
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = f.auth.LoginAdmin(ctx, "nobody@carenest.test", "s3cret!")
	requireStatus(t, err, http.StatusUnauthorized)
}
