package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carenest/marketplace/internal/domain"
)

const (
	// maxActiveClaims bounds the retries of an insert that lost the race for
	// the owner's active slot.
	maxActiveClaims      = 3
	pgExclusionViolation = "23P01"
)

// CardRepository stores client payment cards.
type CardRepository interface {
	// Create stores card and sets card.Active when the owner had no active
	// card. Concurrent creates never leave more than one active.
	Create(ctx context.Context, card *domain.Card) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Card, error)
	// SetActive marks id as the owner's only active card in one statement.
	SetActive(ctx context.Context, ownerID, id string) error
}

// BankAccountRepository stores provider payout accounts.
type BankAccountRepository interface {
	// Create stores bank and sets bank.Active when the owner had no active
	// account.
	Create(ctx context.Context, bank *domain.BankAccount) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.BankAccount, error)
	SetActive(ctx context.Context, ownerID, id string) error
}

type cardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository builds repository.
func NewCardRepository(pool *pgxpool.Pool) CardRepository {
	return &cardRepository{pool: pool}
}

func (r *cardRepository) Create(ctx context.Context, card *domain.Card) error {
	const query = `
        INSERT INTO cards (owner_id, brand, last4, expiry, verified, active)
        SELECT $1::uuid, $2, $3, $4, $5,
               NOT EXISTS (SELECT 1 FROM cards WHERE owner_id=$1::uuid AND active)
        RETURNING id, active, created_at`
	return claimActive(func() error {
		return r.pool.QueryRow(ctx, query,
			card.OwnerID,
			card.Brand,
			card.Last4,
			card.Expiry,
			card.Verified,
		).Scan(&card.ID, &card.Active, &card.CreatedAt)
	})
}

func (r *cardRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Card, error) {
	const query = `
        SELECT id, owner_id, brand, last4, expiry, verified, active, created_at
        FROM cards WHERE owner_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Card
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(
			&card.ID,
			&card.OwnerID,
			&card.Brand,
			&card.Last4,
			&card.Expiry,
			&card.Verified,
			&card.Active,
			&card.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, card)
	}
	return result, rows.Err()
}

func (r *cardRepository) SetActive(ctx context.Context, ownerID, id string) error {
	const query = `
        UPDATE cards SET active = (id = $1)
        WHERE owner_id=$2 AND EXISTS (SELECT 1 FROM cards WHERE id=$1 AND owner_id=$2)`
	return setActive(ctx, r.pool, query, id, ownerID)
}

type bankAccountRepository struct {
	pool *pgxpool.Pool
}

// NewBankAccountRepository builds repository.
func NewBankAccountRepository(pool *pgxpool.Pool) BankAccountRepository {
	return &bankAccountRepository{pool: pool}
}

func (r *bankAccountRepository) Create(ctx context.Context, bank *domain.BankAccount) error {
	const query = `
        INSERT INTO bank_accounts (owner_id, account_number, account_name, bank_name, active)
        SELECT $1::uuid, $2, $3, $4,
               NOT EXISTS (SELECT 1 FROM bank_accounts WHERE owner_id=$1::uuid AND active)
        RETURNING id, active, created_at`
	return claimActive(func() error {
		return r.pool.QueryRow(ctx, query,
			bank.OwnerID,
			bank.AccountNumber,
			bank.AccountName,
			bank.BankName,
		).Scan(&bank.ID, &bank.Active, &bank.CreatedAt)
	})
}

func (r *bankAccountRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.BankAccount, error) {
	const query = `
        SELECT id, owner_id, account_number, account_name, bank_name, active, created_at
        FROM bank_accounts WHERE owner_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BankAccount
	for rows.Next() {
		var bank domain.BankAccount
		if err := rows.Scan(
			&bank.ID,
			&bank.OwnerID,
			&bank.AccountNumber,
			&bank.AccountName,
			&bank.BankName,
			&bank.Active,
			&bank.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, bank)
	}
	return result, rows.Err()
}

func (r *bankAccountRepository) SetActive(ctx context.Context, ownerID, id string) error {
	const query = `
        UPDATE bank_accounts SET active = (id = $1)
        WHERE owner_id=$2 AND EXISTS (SELECT 1 FROM bank_accounts WHERE id=$1 AND owner_id=$2)`
	return setActive(ctx, r.pool, query, id, ownerID)
}

func setActive(ctx context.Context, pool *pgxpool.Pool, query, id, ownerID string) error {
	cmd, err := pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// claimActive runs insert again when a concurrent insert for the same owner
// committed an active row first. The retry observes that row and inserts an
// inactive one.
func claimActive(insert func() error) error {
	var err error
	for attempt := 0; attempt < maxActiveClaims; attempt++ {
		err = insert()
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != pgExclusionViolation {
			return err
		}
	}
	return err
}
