package service

import (
	"context"
	"strings"

	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/repository"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

// PaymentService manages client cards and provider payout accounts. Only
// display fields are persisted.
type PaymentService struct {
	cards repository.CardRepository
	banks repository.BankAccountRepository
}

// CardInput is a card registration request. Number and CVV are checked and
// then discarded; only display fields are kept.
type CardInput struct {
	Number string
	Brand  string
	Expiry string
	CVV    string
}

// BankInput is a payout account registration request.
type BankInput struct {
	AccountNumber string
	AccountName   string
	BankName      string
}

// NewPaymentService constructs the service.
func NewPaymentService(cards repository.CardRepository, banks repository.BankAccountRepository) *PaymentService {
	return &PaymentService{cards: cards, banks: banks}
}

// AddCard stores a card for a client. The card becomes active when the client
// has no active card yet.
func (s *PaymentService) AddCard(ctx context.Context, owner *domain.Account, input CardInput) (*domain.Card, error) {
	if owner.Role != domain.RoleClient {
		return nil, apperrors.NewUnauthorized("cards can only be added by a Client")
	}
	number := digitsOnly(input.Number)
	if len(number) < 12 || len(number) > 19 {
		return nil, apperrors.NewValidationError("card number is invalid", map[string]any{"number": "len"})
	}
	if cvv := strings.TrimSpace(input.CVV); cvv != "" && (len(digitsOnly(cvv)) != len(cvv) || len(cvv) < 3 || len(cvv) > 4) {
		return nil, apperrors.NewValidationError("cvv is invalid", map[string]any{"cvv": "len"})
	}

	brand := strings.TrimSpace(input.Brand)
	if brand == "" {
		brand = cardBrand(number)
	}
	card := &domain.Card{
		OwnerID: owner.ID,
		Brand:   brand,
		Last4:   number[len(number)-4:],
		Expiry:  strings.TrimSpace(input.Expiry),
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// ListCards returns the owner's cards.
func (s *PaymentService) ListCards(ctx context.Context, owner *domain.Account) ([]domain.Card, error) {
	return s.cards.ListByOwner(ctx, owner.ID)
}

// SetActiveCard designates id as the owner's single active card.
func (s *PaymentService) SetActiveCard(ctx context.Context, owner *domain.Account, id string) ([]domain.Card, error) {
	if err := s.cards.SetActive(ctx, owner.ID, id); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("card", map[string]any{"id": id})
		}
		return nil, err
	}
	return s.cards.ListByOwner(ctx, owner.ID)
}

// AddBank stores a payout account for a provider. It becomes active when the
// provider has no active account yet.
func (s *PaymentService) AddBank(ctx context.Context, owner *domain.Account, input BankInput) (*domain.BankAccount, error) {
	if owner.Role != domain.RoleProvider {
		return nil, apperrors.NewUnauthorized("bank accounts can only be added by a Provider")
	}
	number := digitsOnly(input.AccountNumber)
	if number == "" {
		return nil, apperrors.NewValidationError("accountNumber is required", map[string]any{"accountNumber": "required"})
	}

	bank := &domain.BankAccount{
		OwnerID:       owner.ID,
		AccountNumber: number,
		AccountName:   strings.TrimSpace(input.AccountName),
		BankName:      strings.TrimSpace(input.BankName),
	}
	if err := s.banks.Create(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// ListBanks returns the owner's payout accounts.
func (s *PaymentService) ListBanks(ctx context.Context, owner *domain.Account) ([]domain.BankAccount, error) {
	return s.banks.ListByOwner(ctx, owner.ID)
}

// SetActiveBank designates id as the owner's single active payout account.
func (s *PaymentService) SetActiveBank(ctx context.Context, owner *domain.Account, id string) ([]domain.BankAccount, error) {
	if err := s.banks.SetActive(ctx, owner.ID, id); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("bank account", map[string]any{"id": id})
		}
		return nil, err
	}
	return s.banks.ListByOwner(ctx, owner.ID)
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cardBrand(number string) string {
	switch {
	case strings.HasPrefix(number, "506"), strings.HasPrefix(number, "650"):
		return "verve"
	case strings.HasPrefix(number, "4"):
		return "visa"
	case strings.HasPrefix(number, "5"), strings.HasPrefix(number, "2"):
		return "mastercard"
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "amex"
	}
	return "card"
}
