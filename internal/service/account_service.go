package service

import (
	"context"
	"strings"

	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/repository"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

// AccountService covers profile reads and edits, provider search and
// administrative account management.
type AccountService struct {
	accounts repository.AccountRepository
}

// ProfileInput is a partial profile update. Nil fields are left unchanged.
type ProfileInput struct {
	Name            *string
	Email           *string
	Avatar          *string
	DateOfBirth     *string
	Location        *domain.Location
	PaymentMethod   *string
	Bio             *string
	ExperienceYears *string
	Available       *bool
}

// ProviderSearch filters provider listings.
type ProviderSearch struct {
	Name        string
	MinRating   *float64
	CategoryIDs []string
	Limit       int
	Offset      int
}

// NewAccountService constructs the service.
func NewAccountService(accounts repository.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

// Get loads an account by id.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// UpdateProfile applies input to the actor's own account. Role, phone and
// rating cannot be changed here.
func (s *AccountService) UpdateProfile(ctx context.Context, actor *domain.Account, input ProfileInput) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if !account.IsProvider() && (input.Bio != nil || input.ExperienceYears != nil || input.Available != nil) {
		return nil, apperrors.NewValidationError("bio, experienceYears and available are provider fields", nil)
	}

	if input.Name != nil {
		account.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		account.Email = strings.TrimSpace(*input.Email)
	}
	if input.Avatar != nil {
		account.Avatar = *input.Avatar
	}
	if input.DateOfBirth != nil {
		account.DateOfBirth = *input.DateOfBirth
	}
	if input.Location != nil {
		account.Location = *input.Location
	}
	if input.PaymentMethod != nil {
		account.PaymentMethod = *input.PaymentMethod
	}
	if account.Provider != nil {
		if input.Bio != nil {
			account.Provider.Bio = *input.Bio
		}
		if input.ExperienceYears != nil {
			account.Provider.ExperienceYears = *input.ExperienceYears
		}
		if input.Available != nil {
			account.Provider.Available = *input.Available
		}
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// SearchProviders lists providers by name substring, minimum rating and
// category affiliation.
func (s *AccountService) SearchProviders(ctx context.Context, search ProviderSearch) ([]domain.Account, error) {
	role := domain.RoleProvider
	return s.accounts.List(ctx, repository.AccountFilter{
		Role:        &role,
		Name:        search.Name,
		MinRating:   search.MinRating,
		CategoryIDs: search.CategoryIDs,
		Limit:       search.Limit,
		Offset:      search.Offset,
	})
}

// List returns accounts for administrators, optionally restricted to a role.
func (s *AccountService) List(ctx context.Context, role *domain.Role, limit, offset int) ([]domain.Account, error) {
	if role != nil && !role.Valid() {
		return nil, apperrors.NewValidationError(string(*role)+" is not a valid role", nil)
	}
	return s.accounts.List(ctx, repository.AccountFilter{Role: role, Limit: limit, Offset: offset})
}

// SetSuspended blocks or restores an account. Administrators cannot suspend
// themselves.
func (s *AccountService) SetSuspended(ctx context.Context, actor *domain.Account, id string, suspended bool) (*domain.Account, error) {
	if actor != nil && actor.ID == id && suspended {
		return nil, apperrors.NewValidationError("cannot suspend your own account", nil)
	}
	if err := s.accounts.SetSuspended(ctx, id, suspended); err != nil {
		return nil, err
	}
	return s.accounts.GetByID(ctx, id)
}
