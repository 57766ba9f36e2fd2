package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/carenest/marketplace/internal/auth"
	"github.com/carenest/marketplace/internal/config"
	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/repository"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

// AuthService turns verified phones and admin credentials into accounts and
// bearer tokens.
type AuthService struct {
	sessions   *PhoneSessionService
	accounts   repository.AccountRepository
	categories repository.CategoryRepository
	tokens     *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	PhoneSessions *PhoneSessionService
	AccountRepo   repository.AccountRepository
	CategoryRepo  repository.CategoryRepository
	Tokens        *auth.TokenManager
	Logger        *zap.Logger
}

// AuthenticateInput is the phone verification request.
type AuthenticateInput struct {
	Code          string
	Number        string
	OTP           string
	RequestedRole string
}

// AuthResult is returned by every successful sign-in.
type AuthResult struct {
	Account     *domain.Account
	NewAccount  bool
	AccessToken string
	ExpiresAt   time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		sessions:   deps.PhoneSessions,
		accounts:   deps.AccountRepo,
		categories: deps.CategoryRepo,
		tokens:     deps.Tokens,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
	}
}

// Authenticate redeems the phone session, then loads or provisions the
// account bound to the phone. RequestedRole only applies to new accounts.
func (s *AuthService) Authenticate(ctx context.Context, input AuthenticateInput) (*AuthResult, error) {
	role, err := parseRequestedRole(input.RequestedRole)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Redeem(ctx, input.Code, input.Number, input.OTP)
	if err != nil {
		return nil, err
	}

	newAccount := false
	account, err := s.accounts.GetByPhone(ctx, session.Phone)
	switch {
	case err == nil:
	case apperrors.IsNotFound(err):
		account, newAccount, err = s.provision(ctx, session.Phone, role)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if account.Suspended {
		return nil, apperrors.NewUnauthorized("account suspended")
	}
	return s.issue(account, newAccount)
}

// LoginAdmin authenticates an administrator by email and password.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if account.Role != domain.RoleAdmin {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	ok, err := auth.CheckPassword(account.PasswordHash, password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if account.Suspended {
		return nil, apperrors.NewUnauthorized("account suspended")
	}
	return s.issue(account, false)
}

// EnsureAdmin creates the bootstrap administrator when no account uses email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			return fmt.Errorf("bootstrap admin email %q belongs to a %s account", email, existing.Role)
		}
		return nil
	}
	if !apperrors.IsNotFound(err) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.Account{
		Role:         domain.RoleAdmin,
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("account_id", admin.ID))
	return nil
}

func (s *AuthService) provision(ctx context.Context, phone domain.Phone, role domain.Role) (*domain.Account, bool, error) {
	account := &domain.Account{Role: role, Phone: phone}
	if role == domain.RoleProvider {
		catalog, err := s.categories.List(ctx)
		if err != nil {
			return nil, false, err
		}
		snapshots := make([]domain.CategorySnapshot, 0, len(catalog))
		for _, category := range catalog {
			snapshots = append(snapshots, category.Snapshot())
		}
		account.Provider = &domain.ProviderProfile{Categories: snapshots}
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		// A concurrent verification for the same phone won the insert.
		if de := apperrors.ToDomainError(err); de.HTTPStatus == http.StatusConflict {
			existing, getErr := s.accounts.GetByPhone(ctx, phone)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	s.logger.Info("account provisioned",
		zap.String("account_id", account.ID),
		zap.String("role", string(account.Role)),
		zap.String("phone", phone.E164()))
	return account, true, nil
}

func (s *AuthService) issue(account *domain.Account, newAccount bool) (*AuthResult, error) {
	token, exp, err := s.tokens.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{
		Account:     account,
		NewAccount:  newAccount,
		AccessToken: token,
		ExpiresAt:   exp,
	}, nil
}

// parseRequestedRole maps the optional sign-up role. Admin accounts are never
// created through phone verification.
func parseRequestedRole(raw string) (domain.Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "client":
		return domain.RoleClient, nil
	case "provider", "nanny":
		return domain.RoleProvider, nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("%s is not a valid role", raw), map[string]any{"role": raw})
}
