package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/repository"
)

type accountRepository struct {
	s *Store
}

func cloneAccount(a *domain.Account) *domain.Account {
	out := *a
	if a.Provider != nil {
		profile := *a.Provider
		profile.Categories = append([]domain.CategorySnapshot(nil), a.Provider.Categories...)
		out.Provider = &profile
	}
	return &out
}

func (r *accountRepository) Create(_ context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.accounts {
		if account.Phone.Number != "" && existing.Phone == account.Phone {
			return uniqueViolation("accounts_phone_key")
		}
		if account.Email != "" && strings.EqualFold(existing.Email, account.Email) {
			return uniqueViolation("accounts_email_key")
		}
	}

	now := r.s.now()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.s.accounts[account.ID] = cloneAccount(account)
	r.s.accountIDs = append(r.s.accountIDs, account.ID)
	return nil
}

func (r *accountRepository) Update(_ context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(account.ID); err != nil {
		return err
	}
	stored, ok := r.s.accounts[account.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if account.Email != "" {
		for id, existing := range r.s.accounts {
			if id != account.ID && strings.EqualFold(existing.Email, account.Email) {
				return uniqueViolation("accounts_email_key")
			}
		}
	}

	stored.Name = account.Name
	stored.Email = account.Email
	stored.Avatar = account.Avatar
	stored.DateOfBirth = account.DateOfBirth
	stored.Location = account.Location
	stored.PaymentMethod = account.PaymentMethod
	if stored.Provider != nil && account.Provider != nil {
		stored.Provider.Available = account.Provider.Available
		stored.Provider.Bio = account.Provider.Bio
		stored.Provider.ExperienceYears = account.Provider.ExperienceYears
	}
	stored.UpdatedAt = r.s.now()
	account.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *accountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(id); err != nil {
		return nil, err
	}
	account, ok := r.s.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneAccount(account), nil
}

func (r *accountRepository) GetByPhone(_ context.Context, phone domain.Phone) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, account := range r.s.accounts {
		if account.Phone == phone {
			return cloneAccount(account), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *accountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, account := range r.s.accounts {
		if account.Email != "" && strings.EqualFold(account.Email, email) {
			return cloneAccount(account), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *accountRepository) List(_ context.Context, filter repository.AccountFilter) ([]domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	name := strings.ToLower(strings.TrimSpace(filter.Name))
	var matched []domain.Account
	for _, id := range reversed(r.s.accountIDs) {
		account := r.s.accounts[id]
		if filter.Role != nil && account.Role != *filter.Role {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(account.Name), name) {
			continue
		}
		if filter.MinRating != nil && account.Rating() < *filter.MinRating {
			continue
		}
		if len(filter.CategoryIDs) > 0 && !hasAnyCategory(account, filter.CategoryIDs) {
			continue
		}
		matched = append(matched, *cloneAccount(account))
	}
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func (r *accountRepository) SetSuspended(_ context.Context, id string, suspended bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(id); err != nil {
		return err
	}
	account, ok := r.s.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.Suspended = suspended
	account.UpdatedAt = r.s.now()
	return nil
}

func hasAnyCategory(account *domain.Account, ids []string) bool {
	if account.Provider == nil {
		return false
	}
	for _, snapshot := range account.Provider.Categories {
		for _, id := range ids {
			if snapshot.ID == id {
				return true
			}
		}
	}
	return false
}
