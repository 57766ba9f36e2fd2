package memory

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carenest/marketplace/internal/domain"
)

type reviewRepository struct {
	s *Store
}

func (r *reviewRepository) Create(_ context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(review.ProviderID); err != nil {
		return err
	}
	review.ID = uuid.NewString()
	review.CreatedAt = r.s.now()
	r.s.reviews = append(r.s.reviews, *review)
	return nil
}

func (r *reviewRepository) ListByProvider(_ context.Context, providerID string) ([]domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Review
	for _, review := range reversed(r.s.reviews) {
		if review.ProviderID == providerID {
			result = append(result, review)
		}
	}
	return result, nil
}

func (r *reviewRepository) RecomputeProviderRating(_ context.Context, providerID string) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(providerID); err != nil {
		return 0, err
	}
	account, ok := r.s.accounts[providerID]
	if !ok || account.Provider == nil {
		return 0, pgx.ErrNoRows
	}

	var (
		sum   float64
		count int
	)
	for _, review := range r.s.reviews {
		if review.ProviderID == providerID {
			sum += review.Rating
			count++
		}
	}

	var rating float64
	if count > 0 {
		rating = math.Round(sum/float64(count)*10) / 10
	}
	account.Provider.Rating = rating
	account.UpdatedAt = r.s.now()
	return rating, nil
}
