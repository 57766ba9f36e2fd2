package memory_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/repository/memory"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

func TestAccountPhoneIsUnique(t *testing.T) {
	ctx := context.Background()
	accounts := memory.NewStore().Accounts()
	phone := domain.Phone{Code: "234", Number: "8011112222"}

	require.NoError(t, accounts.Create(ctx, &domain.Account{Role: domain.RoleClient, Phone: phone}))
	err := accounts.Create(ctx, &domain.Account{Role: domain.RoleProvider, Phone: phone})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.ToDomainError(err).HTTPStatus)
}

func TestMalformedIDClassifiesAsNotFound(t *testing.T) {
	_, err := memory.NewStore().Bookings().GetByID(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAccountsReturnCopies(t *testing.T) {
	ctx := context.Background()
	accounts := memory.NewStore().Accounts()
	provider := &domain.Account{
		Role:     domain.RoleProvider,
		Name:     "Ada",
		Provider: &domain.ProviderProfile{Categories: []domain.CategorySnapshot{{ID: "c1", Name: "Infant"}}},
	}
	require.NoError(t, accounts.Create(ctx, provider))

	loaded, err := accounts.GetByID(ctx, provider.ID)
	require.NoError(t, err)
	loaded.Name = "changed"
	loaded.Provider.Categories[0].Name = "changed"

	again, err := accounts.GetByID(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Name)
	assert.Equal(t, "Infant", again.Provider.Categories[0].Name)
}

func TestCardSetActiveLeavesExactlyOne(t *testing.T) {
	ctx := context.Background()
	cards := memory.NewStore().Cards()
	owner := "0b6f3c52-2d0e-4f57-9a84-2d4f4d3f0a11"

	first := &domain.Card{OwnerID: owner, Last4: "4242"}
	second := &domain.Card{OwnerID: owner, Last4: "1881", Active: true}
	require.NoError(t, cards.Create(ctx, first))
	require.NoError(t, cards.Create(ctx, second))
	assert.True(t, first.Active)
	assert.False(t, second.Active)

	require.NoError(t, cards.SetActive(ctx, owner, second.ID))
	require.NoError(t, cards.SetActive(ctx, owner, second.ID))

	list, err := cards.ListByOwner(ctx, owner)
	require.NoError(t, err)
	active := 0
	for _, card := range list {
		if card.Active {
			active++
			assert.Equal(t, second.ID, card.ID)
		}
	}
	assert.Equal(t, 1, active)
}

func TestCreateClaimsActiveSlotOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	owner := "0b6f3c52-2d0e-4f57-9a84-2d4f4d3f0a11"
	other := "5c1b0d3e-7f21-4a53-8d9e-1a2b3c4d5e6f"

	const workers = 12
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Cards().Create(ctx, &domain.Card{OwnerID: owner, Last4: "4242"}))
			assert.NoError(t, store.BankAccounts().Create(ctx, &domain.BankAccount{OwnerID: owner, AccountNumber: fmt.Sprintf("%010d", i)}))
		}(i)
	}
	wg.Wait()

	cards, err := store.Cards().ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, cards, workers)
	activeCards := 0
	for _, card := range cards {
		if card.Active {
			activeCards++
		}
	}
	assert.Equal(t, 1, activeCards)

	banks, err := store.BankAccounts().ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, banks, workers)
	activeBanks := 0
	for _, bank := range banks {
		if bank.Active {
			activeBanks++
		}
	}
	assert.Equal(t, 1, activeBanks)

	foreign := &domain.Card{OwnerID: other, Last4: "1881"}
	require.NoError(t, store.Cards().Create(ctx, foreign))
	assert.True(t, foreign.Active)
}

func TestCardSetActiveRejectsForeignCard(t *testing.T) {
	ctx := context.Background()
	cards := memory.NewStore().Cards()
	card := &domain.Card{OwnerID: "0b6f3c52-2d0e-4f57-9a84-2d4f4d3f0a11", Last4: "4242"}
	require.NoError(t, cards.Create(ctx, card))

	err := cards.SetActive(ctx, "5c1b0d3e-7f21-4a53-8d9e-1a2b3c4d5e6f", card.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRecomputeProviderRating(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	provider := &domain.Account{Role: domain.RoleProvider, Provider: &domain.ProviderProfile{}}
	require.NoError(t, store.Accounts().Create(ctx, provider))

	reviews := store.Reviews()
	for _, rating := range []float64{5, 4, 4} {
		require.NoError(t, reviews.Create(ctx, &domain.Review{ProviderID: provider.ID, Rating: rating}))
	}

	rating, err := reviews.RecomputeProviderRating(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, rating)

	loaded, err := store.Accounts().GetByID(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, loaded.Rating())
}

func TestPhoneSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	sessions := store.PhoneSessions()
	phone := domain.Phone{Code: "234", Number: "8011112222"}

	require.NoError(t, sessions.Upsert(ctx, &domain.PhoneSession{Phone: phone, OTP: "1111"}, time.Minute))
	require.NoError(t, sessions.Upsert(ctx, &domain.PhoneSession{Phone: phone, OTP: "2222"}, time.Minute))

	_, err := sessions.Redeem(ctx, phone, "1111")
	assert.True(t, apperrors.IsNotFound(err))

	session, err := sessions.Redeem(ctx, phone, "2222")
	require.NoError(t, err)
	assert.Equal(t, phone, session.Phone)

	_, err = sessions.Redeem(ctx, phone, "2222")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPhoneSessionExpires(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	sessions := store.PhoneSessions()
	phone := domain.Phone{Code: "1", Number: "5550100"}

	require.NoError(t, sessions.Upsert(ctx, &domain.PhoneSession{Phone: phone, OTP: "4321"}, time.Minute))
	now = now.Add(2 * time.Minute)

	_, err := sessions.Redeem(ctx, phone, "4321")
	assert.True(t, apperrors.IsNotFound(err))
}
