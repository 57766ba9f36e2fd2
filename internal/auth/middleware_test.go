package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carenest/marketplace/internal/auth"
	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/repository/memory"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

type gateFixture struct {
	app    *fiber.App
	tokens *auth.TokenManager
	store  *memory.Store
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	store := memory.NewStore()
	tokens := auth.NewTokenManager("secret", time.Hour)
	gate := auth.NewAuthMiddleware(tokens, store.Accounts())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.SendStatus(fe.Code)
			}
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	protected := app.Group("/", gate.Handle)
	protected.Get("/me", func(c *fiber.Ctx) error {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(string(principal.Role()))
	})
	protected.Get("/admin", auth.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	protected.Get("/clients", auth.RequireRole(domain.RoleClient), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	return &gateFixture{app: app, tokens: tokens, store: store}
}

func (f *gateFixture) account(t *testing.T, role domain.Role) (*domain.Account, string) {
	t.Helper()
	account := &domain.Account{Role: role, Name: string(role)}
	require.NoError(t, f.store.Accounts().Create(context.Background(), account))
	token, _, err := f.tokens.GenerateToken(account.ID, account.Role)
	require.NoError(t, err)
	return account, token
}

func (f *gateFixture) do(t *testing.T, path, authorization string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddlewareRejectsBadCredentials(t *testing.T) {
	f := newGateFixture(t)
	_, token := f.account(t, domain.RoleClient)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/me", "Token "+token))
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/me", "Bearer garbage"))

	orphan, _, err := f.tokens.GenerateToken("5c1b0d3e-7f21-4a53-8d9e-1a2b3c4d5e6f", domain.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/me", "Bearer "+orphan))
}

func TestAuthMiddlewareLoadsPrincipal(t *testing.T) {
	f := newGateFixture(t)
	_, token := f.account(t, domain.RoleProvider)

	assert.Equal(t, http.StatusOK, f.do(t, "/me", "Bearer "+token))
	assert.Equal(t, http.StatusOK, f.do(t, "/me", "bearer "+token))
}

func TestAuthMiddlewareRejectsSuspended(t *testing.T) {
	f := newGateFixture(t)
	account, token := f.account(t, domain.RoleClient)
	require.NoError(t, f.store.Accounts().SetSuspended(context.Background(), account.ID, true))

	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/me", "Bearer "+token))
}

func TestRoleGuards(t *testing.T) {
	f := newGateFixture(t)
	_, clientToken := f.account(t, domain.RoleClient)
	_, adminToken := f.account(t, domain.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/admin", "Bearer "+clientToken))
	assert.Equal(t, http.StatusNoContent, f.do(t, "/admin", "Bearer "+adminToken))
	assert.Equal(t, http.StatusNoContent, f.do(t, "/clients", "Bearer "+clientToken))
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/clients", "Bearer "+adminToken))
}
