package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carenest/marketplace/internal/domain"
)

// ReviewRepository persists append-only reviews and derives provider ratings.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByProvider(ctx context.Context, providerID string) ([]domain.Review, error)
	// RecomputeProviderRating averages every review of the provider, rounds to
	// one decimal place and stores the result on the account.
	RecomputeProviderRating(ctx context.Context, providerID string) (float64, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository builds repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO reviews (reviewer_id, reviewer_name, provider_id, rating, comment)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		review.Reviewer.ID,
		review.Reviewer.Name,
		review.ProviderID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
}

func (r *reviewRepository) ListByProvider(ctx context.Context, providerID string) ([]domain.Review, error) {
	const query = `
        SELECT id, reviewer_id, reviewer_name, provider_id, rating, comment, created_at
        FROM reviews WHERE provider_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.Reviewer.ID,
			&review.Reviewer.Name,
			&review.ProviderID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

// RecomputeProviderRating runs as one statement so the aggregate is read and
// written against the same snapshot of the reviews table.
func (r *reviewRepository) RecomputeProviderRating(ctx context.Context, providerID string) (float64, error) {
	const query = `
        UPDATE accounts SET rating = COALESCE(
            (SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE provider_id=$1), 0),
            updated_at=NOW()
        WHERE id=$1 AND role='Provider'
        RETURNING rating`
	var rating float64
	if err := r.pool.QueryRow(ctx, query, providerID).Scan(&rating); err != nil {
		return 0, err
	}
	return rating, nil
}
