package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/repository"
)

type bookingRepository struct {
	s *Store
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	out := *b
	out.Beneficiaries = append([]domain.Beneficiary(nil), b.Beneficiaries...)
	if b.ProviderSubStatus != nil {
		sub := *b.ProviderSubStatus
		out.ProviderSubStatus = &sub
	}
	if b.CancellationReason != nil {
		reason := *b.CancellationReason
		out.CancellationReason = &reason
	}
	return &out
}

func (r *bookingRepository) Create(_ context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.bookings {
		if existing.Reference == booking.Reference {
			return uniqueViolation("bookings_reference_key")
		}
	}
	now := r.s.now()
	booking.ID = uuid.NewString()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.s.bookings[booking.ID] = cloneBooking(booking)
	r.s.bookingIDs = append(r.s.bookingIDs, booking.ID)
	return nil
}

func (r *bookingRepository) UpdateStatus(_ context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(booking.ID); err != nil {
		return err
	}
	stored, ok := r.s.bookings[booking.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	update := cloneBooking(booking)
	stored.Status = update.Status
	stored.ProviderSubStatus = update.ProviderSubStatus
	stored.CancellationReason = update.CancellationReason
	stored.UpdatedAt = r.s.now()
	booking.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *bookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(id); err != nil {
		return nil, err
	}
	booking, ok := r.s.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneBooking(booking), nil
}

func (r *bookingRepository) GetByReference(_ context.Context, reference string) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, booking := range r.s.bookings {
		if booking.Reference == reference {
			return cloneBooking(booking), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *bookingRepository) List(_ context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []domain.Booking
	for _, id := range reversed(r.s.bookingIDs) {
		booking := r.s.bookings[id]
		if filter.ClientID != nil && booking.Client.ID != *filter.ClientID {
			continue
		}
		if filter.ProviderID != nil && booking.Provider.ID != *filter.ProviderID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, booking.Status) {
			continue
		}
		matched = append(matched, *cloneBooking(booking))
	}
	if filter.Unbounded {
		return matched, nil
	}
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func containsStatus(statuses []domain.BookingStatus, status domain.BookingStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

type bookingHistoryRepository struct {
	s *Store
}

func (r *bookingHistoryRepository) Create(_ context.Context, history *domain.BookingHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	history.ID = uuid.NewString()
	history.CreatedAt = r.s.now()
	r.s.history = append(r.s.history, *history)
	return nil
}

func (r *bookingHistoryRepository) ListByBooking(_ context.Context, bookingID string) ([]domain.BookingHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.BookingHistory
	for _, entry := range r.s.history {
		if entry.BookingID == bookingID {
			result = append(result, entry)
		}
	}
	return result, nil
}
