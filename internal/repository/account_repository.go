package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carenest/marketplace/internal/domain"
)

// AccountFilter narrows account listings. Zero values mean no constraint.
type AccountFilter struct {
	Role        *domain.Role
	Name        string
	MinRating   *float64
	CategoryIDs []string
	Limit       int
	Offset      int
}

// AccountRepository defines persistence access for accounts of every role.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByPhone(ctx context.Context, phone domain.Phone) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	SetSuspended(ctx context.Context, id string, suspended bool) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, role, phone_code, phone_number, name, email, avatar, date_of_birth,
               lat, long, payment_method, password_hash, suspended, rating, categories,
               available, bio, experience_years, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (role, phone_code, phone_number, name, email, avatar, date_of_birth,
            lat, long, payment_method, password_hash, rating, categories, available, bio, experience_years)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING id, created_at, updated_at`

	profile := providerColumns(account)
	return r.pool.QueryRow(ctx, query,
		account.Role,
		account.Phone.Code,
		account.Phone.Number,
		account.Name,
		account.Email,
		account.Avatar,
		account.DateOfBirth,
		account.Location.Lat,
		account.Location.Long,
		account.PaymentMethod,
		account.PasswordHash,
		profile.Rating,
		profile.Categories,
		profile.Available,
		profile.Bio,
		profile.ExperienceYears,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

// Update writes profile fields. Role, phone, rating and category snapshot are
// never touched here.
func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts SET name=$1, email=$2, avatar=$3, date_of_birth=$4, lat=$5, long=$6,
            payment_method=$7, available=$8, bio=$9, experience_years=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`

	profile := providerColumns(account)
	return r.pool.QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.Avatar,
		account.DateOfBirth,
		account.Location.Lat,
		account.Location.Long,
		account.PaymentMethod,
		profile.Available,
		profile.Bio,
		profile.ExperienceYears,
		account.ID,
	).Scan(&account.UpdatedAt)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByPhone(ctx context.Context, phone domain.Phone) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE phone_code=$1 AND phone_number=$2`
	return scanAccount(r.pool.QueryRow(ctx, query, phone.Code, phone.Number))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email)=LOWER($1)`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *accountRepository) List(ctx context.Context, filter AccountFilter) ([]domain.Account, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		args = append(args, "%"+strings.ToLower(name)+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	if filter.MinRating != nil {
		args = append(args, *filter.MinRating)
		clauses = append(clauses, fmt.Sprintf("rating >= $%d", len(args)))
	}
	if len(filter.CategoryIDs) > 0 {
		args = append(args, filter.CategoryIDs)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM jsonb_array_elements(categories) c WHERE c->>'id' = ANY($%d))", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		accountColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *account)
	}
	return result, rows.Err()
}

func (r *accountRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	const query = `UPDATE accounts SET suspended=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, suspended, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func providerColumns(account *domain.Account) domain.ProviderProfile {
	if account.Provider == nil {
		return domain.ProviderProfile{Categories: []domain.CategorySnapshot{}}
	}
	profile := *account.Provider
	if profile.Categories == nil {
		profile.Categories = []domain.CategorySnapshot{}
	}
	return profile
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		profile domain.ProviderProfile
	)
	if err := row.Scan(
		&account.ID,
		&account.Role,
		&account.Phone.Code,
		&account.Phone.Number,
		&account.Name,
		&account.Email,
		&account.Avatar,
		&account.DateOfBirth,
		&account.Location.Lat,
		&account.Location.Long,
		&account.PaymentMethod,
		&account.PasswordHash,
		&account.Suspended,
		&profile.Rating,
		&profile.Categories,
		&profile.Available,
		&profile.Bio,
		&profile.ExperienceYears,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if account.Role == domain.RoleProvider {
		account.Provider = &profile
	}
	return &account, nil
}
