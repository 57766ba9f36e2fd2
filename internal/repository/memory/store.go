// Package memory provides in-process implementations of the repository
// interfaces. It backs local runs without Postgres or Redis and the service
// tests. Missing rows and uniqueness violations are reported with the same
// pgx error shapes the Postgres repositories return.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/repository"
)

// Store holds every in-memory table behind a single lock.
type Store struct {
	mu sync.Mutex

	accounts   map[string]*domain.Account
	accountIDs []string
	categories map[string]*domain.Category
	bookings   map[string]*domain.Booking
	bookingIDs []string
	history    []domain.BookingHistory
	reviews    []domain.Review
	cards      map[string]*domain.Card
	banks      map[string]*domain.BankAccount
	sessions   map[string]phoneSessionEntry

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts:   map[string]*domain.Account{},
		categories: map[string]*domain.Category{},
		bookings:   map[string]*domain.Booking{},
		cards:      map[string]*domain.Card{},
		banks:      map[string]*domain.BankAccount{},
		sessions:   map[string]phoneSessionEntry{},
		now:        time.Now,
	}
}

// SetClock overrides the time source used for timestamps and session expiry.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Accounts returns the account repository view.
func (s *Store) Accounts() repository.AccountRepository { return &accountRepository{s} }

// Categories returns the category repository view.
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepository{s} }

// Bookings returns the booking repository view.
func (s *Store) Bookings() repository.BookingRepository { return &bookingRepository{s} }

// BookingHistory returns the booking history repository view.
func (s *Store) BookingHistory() repository.BookingHistoryRepository {
	return &bookingHistoryRepository{s}
}

// Reviews returns the review repository view.
func (s *Store) Reviews() repository.ReviewRepository { return &reviewRepository{s} }

// Cards returns the card repository view.
func (s *Store) Cards() repository.CardRepository { return &cardRepository{s} }

// BankAccounts returns the bank account repository view.
func (s *Store) BankAccounts() repository.BankAccountRepository { return &bankAccountRepository{s} }

// PhoneSessions returns the phone session repository view.
func (s *Store) PhoneSessions() repository.PhoneSessionRepository {
	return &phoneSessionRepository{s}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

// validID mirrors the uuid column type: ids that are not uuids are rejected
// with the same error Postgres raises.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}
	}
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// reversed returns items newest first, relying on append order.
func reversed[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}

func sortByCreated[T any](items []T, key func(T) (int64, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			return ti < tj
		}
		return idi < idj
	})
}
