package service

import (
	"context"
	"math"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstReviewSetsRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Chioma", lagos)
	provider := f.provider(t, "Ada", ikeja)

	review, err := f.reviews.Submit(ctx, client, SubmitReviewInput{ProviderID: provider.ID, Rating: 5, Comment: "lovely"})
	require.NoError(t, err)
	assert.Equal(t, client.ID, review.Reviewer.ID)
	assert.Equal(t, "Chioma", review.Reviewer.Name)

	loaded, err := f.accounts.Get(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, loaded.Rating())
}

func TestRatingTracksRoundedMeanAfterEveryInsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Chioma", lagos)
	provider := f.provider(t, "Ada", ikeja)

	ratings := []float64{5, 4, 4, 3, 2.5}
	var sum float64
	for i, rating := range ratings {
		_, err := f.reviews.Submit(ctx, client, SubmitReviewInput{ProviderID: provider.ID, Rating: rating})
		require.NoError(t, err)
		sum += rating

		loaded, err := f.accounts.Get(ctx, provider.ID)
		require.NoError(t, err)
		assert.Equal(t, math.Round(sum/float64(i+1)*10)/10, loaded.Rating())

		listed, err := f.reviews.ListForProvider(ctx, provider)
		require.NoError(t, err)
		assert.Len(t, listed, i+1)
	}
}

func TestProviderCannotReview(t *testing.T) {
	f := newFixture(t)
	reviewer := f.provider(t, "Bola", lagos)
	provider := f.provider(t, "Ada", ikeja)

	_, err := f.reviews.Submit(context.Background(), reviewer, SubmitReviewInput{ProviderID: provider.ID, Rating: 1})
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestReviewValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Chioma", lagos)
	provider := f.provider(t, "Ada", ikeja)

	_, err := f.reviews.Submit(ctx, client, SubmitReviewInput{ProviderID: provider.ID, Rating: 6})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.reviews.Submit(ctx, client, SubmitReviewInput{ProviderID: client.ID, Rating: 4})
	requireStatus(t, err, http.StatusNotFound)
}

func TestConcurrentReviewsConverge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	provider := f.provider(t, "Ada", ikeja)
	ratings := []float64{5, 1, 4, 2, 3, 5, 5, 4}

	var wg sync.WaitGroup
	for _, rating := range ratings {
		client := f.client(t, "Client", lagos)
		wg.Add(1)
		go func(rating float64) {
			defer wg.Done()
			_, err := f.reviews.Submit(ctx, client, SubmitReviewInput{ProviderID: provider.ID, Rating: rating})
			assert.NoError(t, err)
		}(rating)
	}
	wg.Wait()

	loaded, err := f.accounts.Get(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.6, loaded.Rating())
}

func TestListReviewsRequiresProvider(t *testing.T) {
	f := newFixture(t)
	client := f.client(t, "Chioma", lagos)

	_, err := f.reviews.ListForProvider(context.Background(), client)
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.Lock("a")
	unlock()
	assert.Empty(t, k.locks)
}
