package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carenest/marketplace/internal/auth"
	"github.com/carenest/marketplace/internal/config"
	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/events"
	"github.com/carenest/marketplace/internal/repository/memory"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

type recordingSMS struct {
	mu       sync.Mutex
	messages map[string][]string
}

func (r *recordingSMS) Send(_ context.Context, to domain.Phone, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[to.E164()] = append(r.messages[to.E164()], body)
	return nil
}

func (r *recordingSMS) sent(phone string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages[phone]...)
}

type fixture struct {
	store    *memory.Store
	tokens   *auth.TokenManager
	sms      *recordingSMS
	sessions *PhoneSessionService
	auth     *AuthService
	bookings *BookingService
	reviews  *ReviewService
	payments *PaymentService
	catalog  *CatalogService
	accounts *AccountService
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			OTPLength:             4,
			OTPTTLSeconds:         300,
			BcryptCost:            4,
		},
		Pricing: config.PricingConfig{
			TransportRatePerKm:      100,
			EstimatedArrivalMinutes: 15,
		},
		Notification: config.NotificationConfig{SMSSenderID: "CARENEST"},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()
	logger := zap.NewNop()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(logger, nil)
	sms := &recordingSMS{messages: map[string][]string{}}
	NewNotificationService(dispatcher, sms, logger, cfg.Notification).RegisterHandlers()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	sessions := NewPhoneSessionService(cfg.Auth, PhoneSessionDependencies{
		SessionRepo: store.PhoneSessions(),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	return &fixture{
		store:    store,
		tokens:   tokens,
		sms:      sms,
		sessions: sessions,
		auth: NewAuthService(cfg.Auth, AuthDependencies{
			PhoneSessions: sessions,
			AccountRepo:   store.Accounts(),
			CategoryRepo:  store.Categories(),
			Tokens:        tokens,
			Logger:        logger,
		}),
		bookings: NewBookingService(cfg.Pricing, BookingDependencies{
			BookingRepo:  store.Bookings(),
			HistoryRepo:  store.BookingHistory(),
			AccountRepo:  store.Accounts(),
			CategoryRepo: store.Categories(),
			Dispatcher:   dispatcher,
			Logger:       logger,
		}),
		reviews: NewReviewService(ReviewDependencies{
			ReviewRepo:  store.Reviews(),
			AccountRepo: store.Accounts(),
			Dispatcher:  dispatcher,
			Logger:      logger,
		}),
		payments: NewPaymentService(store.Cards(), store.BankAccounts()),
		catalog:  NewCatalogService(store.Categories()),
		accounts: NewAccountService(store.Accounts()),
	}
}

func (f *fixture) client(t *testing.T, name string, location domain.Location) *domain.Account {
	t.Helper()
	account := &domain.Account{Role: domain.RoleClient, Name: name, Location: location}
	require.NoError(t, f.store.Accounts().Create(context.Background(), account))
	return account
}

func (f *fixture) provider(t *testing.T, name string, location domain.Location) *domain.Account {
	t.Helper()
	account := &domain.Account{
		Role:        domain.RoleProvider,
		Name:        name,
		DateOfBirth: "1990-04-12",
		Location:    location,
		Provider:    &domain.ProviderProfile{Available: true},
	}
	require.NoError(t, f.store.Accounts().Create(context.Background(), account))
	return account
}

func (f *fixture) category(t *testing.T, name string, price float64) *domain.Category {
	t.Helper()
	category, err := f.catalog.Create(context.Background(), CategoryInput{Name: name, Price: price})
	require.NoError(t, err)
	return category
}

func requireStatus(t *testing.T, err error, status int) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, status, de.HTTPStatus, de.Message)
	return de
}

var (
	lagos = domain.Location{Lat: 6.5244, Long: 3.3792}
	ikeja = domain.Location{Lat: 6.6018, Long: 3.3515}
)
