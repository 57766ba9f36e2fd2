package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carenest/marketplace/internal/domain"
)

func TestAddCardKeepsDisplayFieldsOnly(t *testing.T) {
	f := newFixture(t)
	client := f.client(t, "Chioma", lagos)

	card, err := f.payments.AddCard(context.Background(), client, CardInput{
		Number: "4242 4242 4242 4242",
		Expiry: "12/29",
		CVV:    "123",
	})
	require.NoError(t, err)
	assert.Equal(t, "4242", card.Last4)
	assert.Equal(t, "visa", card.Brand)
	assert.True(t, card.Active)
}

func TestAddCardValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Chioma", lagos)
	provider := f.provider(t, "Ada", ikeja)

	_, err := f.payments.AddCard(ctx, provider, CardInput{Number: "4242424242424242"})
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = f.payments.AddCard(ctx, client, CardInput{Number: "4242"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.payments.AddCard(ctx, client, CardInput{Number: "4242424242424242", CVV: "12a"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestSetActiveCardTwiceLeavesOneActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Chioma", lagos)

	_, err := f.payments.AddCard(ctx, client, CardInput{Number: "4242424242424242"})
	require.NoError(t, err)
	second, err := f.payments.AddCard(ctx, client, CardInput{Number: "5399838383838381"})
	require.NoError(t, err)
	assert.False(t, second.Active)

	_, err = f.payments.SetActiveCard(ctx, client, second.ID)
	require.NoError(t, err)
	cards, err := f.payments.SetActiveCard(ctx, client, second.ID)
	require.NoError(t, err)

	assertSingleActiveCard(t, cards, second.ID)
}

func TestSetActiveCardUnknown(t *testing.T) {
	f := newFixture(t)
	client := f.client(t, "Chioma", lagos)

	_, err := f.payments.SetActiveCard(context.Background(), client, "5c1b0d3e-7f21-4a53-8d9e-1a2b3c4d5e6f")
	requireStatus(t, err, http.StatusNotFound)
}

func TestBankAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Chioma", lagos)
	provider := f.provider(t, "Ada", ikeja)

	_, err := f.payments.AddBank(ctx, client, BankInput{AccountNumber: "0123456789"})
	requireStatus(t, err, http.StatusUnauthorized)

	first, err := f.payments.AddBank(ctx, provider, BankInput{AccountNumber: "0123456789", AccountName: "Ada", BankName: "GTB"})
	require.NoError(t, err)
	assert.True(t, first.Active)

	_, err = f.payments.AddBank(ctx, provider, BankInput{AccountNumber: "0123456789"})
	requireStatus(t, err, http.StatusConflict)

	second, err := f.payments.AddBank(ctx, provider, BankInput{AccountNumber: "9876543210"})
	require.NoError(t, err)

	banks, err := f.payments.SetActiveBank(ctx, provider, second.ID)
	require.NoError(t, err)
	active := 0
	for _, bank := range banks {
		if bank.Active {
			active++
			assert.Equal(t, second.ID, bank.ID)
		}
	}
	assert.Equal(t, 1, active)
}

func TestConcurrentFirstInstrumentsLeaveOneActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Chioma", lagos)
	provider := f.provider(t, "Ada", ikeja)

	const workers = 16
	var wg sync.WaitGroup
	cardActive := make([]bool, workers)
	bankActive := make([]bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			card, err := f.payments.AddCard(ctx, client, CardInput{Number: "4242424242424242"})
			if assert.NoError(t, err) {
				cardActive[i] = card.Active
			}
			bank, err := f.payments.AddBank(ctx, provider, BankInput{AccountNumber: fmt.Sprintf("01234567%02d", i)})
			if assert.NoError(t, err) {
				bankActive[i] = bank.Active
			}
		}(i)
	}
	wg.Wait()

	countTrue := func(values []bool) int {
		n := 0
		for _, v := range values {
			if v {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, countTrue(cardActive))
	assert.Equal(t, 1, countTrue(bankActive))

	cards, err := f.payments.ListCards(ctx, client)
	require.NoError(t, err)
	require.Len(t, cards, workers)
	stored := make([]bool, 0, len(cards))
	for _, card := range cards {
		stored = append(stored, card.Active)
	}
	assert.Equal(t, 1, countTrue(stored))

	banks, err := f.payments.ListBanks(ctx, provider)
	require.NoError(t, err)
	require.Len(t, banks, workers)
	stored = stored[:0]
	for _, bank := range banks {
		stored = append(stored, bank.Active)
	}
	assert.Equal(t, 1, countTrue(stored))
}

func assertSingleActiveCard(t *testing.T, cards []domain.Card, id string) {
	t.Helper()
	active := 0
	for _, card := range cards {
		if card.Active {
			active++
			assert.Equal(t, id, card.ID)
		}
	}
	assert.Equal(t, 1, active)
}
