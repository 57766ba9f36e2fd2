package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/events"
	"github.com/carenest/marketplace/internal/repository"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

const maxRating = 5

// ReviewService records reviews and keeps provider ratings derived from them.
type ReviewService struct {
	reviews    repository.ReviewRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	locks      *keyedMutex
}

// ReviewDependencies bundles collaborators for the review service.
type ReviewDependencies struct {
	ReviewRepo  repository.ReviewRepository
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// SubmitReviewInput is a review of a provider.
type SubmitReviewInput struct {
	ProviderID string
	Rating     float64
	Comment    string
}

// NewReviewService constructs the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviews:    deps.ReviewRepo,
		accounts:   deps.AccountRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		locks:      newKeyedMutex(),
	}
}

// Submit appends a review and recomputes the provider's rating from every
// stored review. Recomputes for one provider run one at a time so a slow
// write cannot overwrite a newer average.
func (s *ReviewService) Submit(ctx context.Context, reviewer *domain.Account, input SubmitReviewInput) (*domain.Review, error) {
	if reviewer == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if reviewer.Role == domain.RoleProvider {
		return nil, apperrors.NewUnauthorized("Provider cannot rate providers")
	}
	if input.Rating < 0 || input.Rating > maxRating {
		return nil, apperrors.NewValidationError("rating must be between 0 and 5", map[string]any{"rating": input.Rating})
	}

	providerID := strings.TrimSpace(input.ProviderID)
	provider, err := s.accounts.GetByID(ctx, providerID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("provider", map[string]any{"id": providerID})
		}
		return nil, err
	}
	if !provider.IsProvider() {
		return nil, apperrors.NewNotFound("provider", map[string]any{"id": providerID})
	}

	review := &domain.Review{
		Reviewer:   domain.ReviewerSnapshot{ID: reviewer.ID, Name: reviewer.Name},
		ProviderID: provider.ID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
	}

	unlock := s.locks.Lock(provider.ID)
	defer unlock()

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	average, err := s.reviews.RecomputeProviderRating(ctx, provider.ID)
	if err != nil {
		// The review is stored; the next submission recomputes from scratch.
		s.logger.Error("provider rating not recomputed", zap.String("provider_id", provider.ID), zap.Error(err))
		return review, nil
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventReviewSubmitted,
		SubjectID: review.ID,
		Actor:     accountActor(reviewer),
		Payload: events.ReviewSubmittedPayload{
			ProviderID: provider.ID,
			Rating:     review.Rating,
			NewAverage: average,
		},
	})
	return review, nil
}

// ListForProvider returns the reviews received by the acting provider, newest first.
func (s *ReviewService) ListForProvider(ctx context.Context, actor *domain.Account) ([]domain.Review, error) {
	if actor == nil || actor.Role != domain.RoleProvider {
		return nil, apperrors.NewUnauthorized("reviews are only available to providers")
	}
	return s.reviews.ListByProvider(ctx, actor.ID)
}

// keyedMutex serializes work per key and drops idle entries.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*keyedLock{}}
}

// Lock acquires the lock for key and returns its release function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyedLock{}
		k.locks[key] = lock
	}
	lock.refs++
	k.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		k.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
