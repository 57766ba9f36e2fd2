package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carenest/marketplace/internal/domain"
)

type cardRepository struct {
	s *Store
}

func (r *cardRepository) Create(_ context.Context, card *domain.Card) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	card.Active = true
	for _, existing := range r.s.cards {
		if existing.OwnerID == card.OwnerID && existing.Active {
			card.Active = false
			break
		}
	}
	card.ID = uuid.NewString()
	card.CreatedAt = r.s.now()
	stored := *card
	r.s.cards[card.ID] = &stored
	return nil
}

func (r *cardRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Card
	for _, card := range r.s.cards {
		if card.OwnerID == ownerID {
			result = append(result, *card)
		}
	}
	sortByCreated(result, func(c domain.Card) (int64, string) { return c.CreatedAt.UnixNano(), c.ID })
	return result, nil
}

func (r *cardRepository) SetActive(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(id); err != nil {
		return err
	}
	target, ok := r.s.cards[id]
	if !ok || target.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	for _, card := range r.s.cards {
		if card.OwnerID == ownerID {
			card.Active = card.ID == id
		}
	}
	return nil
}

type bankAccountRepository struct {
	s *Store
}

func (r *bankAccountRepository) Create(_ context.Context, bank *domain.BankAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bank.Active = true
	for _, existing := range r.s.banks {
		if existing.OwnerID != bank.OwnerID {
			continue
		}
		if existing.AccountNumber == bank.AccountNumber {
			return uniqueViolation("bank_accounts_owner_id_account_number_key")
		}
		if existing.Active {
			bank.Active = false
		}
	}
	bank.ID = uuid.NewString()
	bank.CreatedAt = r.s.now()
	stored := *bank
	r.s.banks[bank.ID] = &stored
	return nil
}

func (r *bankAccountRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.BankAccount
	for _, bank := range r.s.banks {
		if bank.OwnerID == ownerID {
			result = append(result, *bank)
		}
	}
	sortByCreated(result, func(b domain.BankAccount) (int64, string) { return b.CreatedAt.UnixNano(), b.ID })
	return result, nil
}

func (r *bankAccountRepository) SetActive(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(id); err != nil {
		return err
	}
	target, ok := r.s.banks[id]
	if !ok || target.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	for _, bank := range r.s.banks {
		if bank.OwnerID == ownerID {
			bank.Active = bank.ID == id
		}
	}
	return nil
}
