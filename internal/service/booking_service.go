package service

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/carenest/marketplace/internal/config"
	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/events"
	"github.com/carenest/marketplace/internal/geo"
	"github.com/carenest/marketplace/internal/repository"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

const referenceAttempts = 3

// BookingService coordinates the booking lifecycle.
type BookingService struct {
	bookings      repository.BookingRepository
	history       repository.BookingHistoryRepository
	accounts      repository.AccountRepository
	categories    repository.CategoryRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	transportRate float64
	etaMinutes    int
}

// BookingDependencies bundles repositories for the booking service.
type BookingDependencies struct {
	BookingRepo  repository.BookingRepository
	HistoryRepo  repository.BookingHistoryRepository
	AccountRepo  repository.AccountRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// CreateBookingInput describes booking creation payload.
type CreateBookingInput struct {
	ProviderID    string
	Address       domain.Location
	Start         domain.Schedule
	End           domain.Schedule
	Beneficiaries []domain.Beneficiary
	PaymentMethod string
	Comment       string
}

// TransitionInput is a requested status change. Status holds either a
// primary status or a provider en-route value.
type TransitionInput struct {
	Status string
	Reason *string
}

// NewBookingService constructs the service.
func NewBookingService(cfg config.PricingConfig, deps BookingDependencies) *BookingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		bookings:      deps.BookingRepo,
		history:       deps.HistoryRepo,
		accounts:      deps.AccountRepo,
		categories:    deps.CategoryRepo,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		transportRate: cfg.TransportRatePerKm,
		etaMinutes:    cfg.EstimatedArrivalMinutes,
	}
}

// Create books a provider for the acting client. Client and provider fields
// are copied into the booking once and never refreshed.
func (s *BookingService) Create(ctx context.Context, actor *domain.Account, input CreateBookingInput) (*domain.Booking, error) {
	if actor == nil || actor.Role != domain.RoleClient {
		return nil, apperrors.NewUnauthorized("Order can only be booked by a Client")
	}

	provider, err := s.accounts.GetByID(ctx, strings.TrimSpace(input.ProviderID))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("provider", map[string]any{"id": input.ProviderID})
		}
		return nil, err
	}
	if !provider.IsProvider() {
		return nil, apperrors.NewNotFound("provider", map[string]any{"id": input.ProviderID})
	}
	if provider.Suspended {
		return nil, apperrors.NewValidationError("provider is not accepting bookings", map[string]any{"provider": provider.ID})
	}

	distance := geo.DistanceKm(input.Address, provider.Location)
	price, err := s.quote(ctx, input.Beneficiaries, distance)
	if err != nil {
		return nil, err
	}

	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = actor.PaymentMethod
	}

	booking := &domain.Booking{
		Status: domain.BookingStatusPending,
		Client: domain.ClientSnapshot{ID: actor.ID, Name: actor.Name},
		Provider: domain.ProviderSnapshot{
			ID:          provider.ID,
			Name:        provider.Name,
			DateOfBirth: provider.DateOfBirth,
			Rating:      provider.Rating(),
			DistanceKm:  distance,
		},
		Price:                   price,
		Address:                 input.Address,
		Start:                   input.Start,
		End:                     input.End,
		Beneficiaries:           input.Beneficiaries,
		PaymentMethod:           paymentMethod,
		Comment:                 strings.TrimSpace(input.Comment),
		EstimatedArrivalMinutes: s.etaMinutes,
	}

	if err := s.insert(ctx, booking); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventBookingCreated,
		SubjectID: booking.ID,
		Actor:     accountActor(actor),
		Payload: events.BookingCreatedPayload{
			Reference:  booking.Reference,
			ClientID:   booking.Client.ID,
			ProviderID: booking.Provider.ID,
			Total:      booking.Price.Total,
		},
	})
	return booking, nil
}

// Transition applies a status change under the actor's role rules. Clients
// and admins may only cancel. Providers may set any primary status, which
// clears the en-route value, or an en-route value, which forces accepted.
// The source status is not restricted.
func (s *BookingService) Transition(ctx context.Context, actor *domain.Account, bookingID string, input TransitionInput) (*domain.Booking, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	requested := strings.ToLower(strings.TrimSpace(input.Status))

	var apply func(*domain.Booking)
	switch actor.Role {
	case domain.RoleClient, domain.RoleAdmin:
		if domain.BookingStatus(requested) != domain.BookingStatusCancelled {
			return nil, apperrors.NewUnauthorized("Status can only be updated by a Provider")
		}
		apply = func(b *domain.Booking) {
			b.Status = domain.BookingStatusCancelled
			b.ProviderSubStatus = nil
			b.CancellationReason = normalizeReason(input.Reason)
		}
	case domain.RoleProvider:
		switch {
		case domain.BookingStatus(requested).Valid():
			apply = func(b *domain.Booking) {
				b.Status = domain.BookingStatus(requested)
				b.ProviderSubStatus = nil
				b.CancellationReason = normalizeReason(input.Reason)
			}
		case domain.ProviderSubStatus(requested).Valid():
			sub := domain.ProviderSubStatus(requested)
			apply = func(b *domain.Booking) {
				b.Status = domain.BookingStatusAccepted
				b.ProviderSubStatus = &sub
			}
		default:
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("%s is not a valid status", input.Status),
				map[string]any{"status": input.Status})
		}
	default:
		return nil, apperrors.NewUnauthorized("insufficient role")
	}

	booking, err := s.lookup(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canTransition(actor, booking) {
		return nil, apperrors.NewNotFound("booking", map[string]any{"id": bookingID})
	}

	oldStatus := booking.Status
	apply(booking)
	if err := s.bookings.UpdateStatus(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.recordStatusChange(ctx, actor, booking, oldStatus); err != nil {
		s.logger.Warn("booking history not recorded", zap.String("booking_id", booking.ID), zap.Error(err))
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventBookingStatusChanged,
		SubjectID: booking.ID,
		Actor:     accountActor(actor),
		Payload: events.BookingStatusChangedPayload{
			Reference:         booking.Reference,
			ClientID:          booking.Client.ID,
			ProviderID:        booking.Provider.ID,
			OldStatus:         oldStatus,
			NewStatus:         booking.Status,
			ProviderSubStatus: booking.ProviderSubStatus,
			Reason:            booking.CancellationReason,
		},
	})
	return booking, nil
}

// Get returns a booking by id or short reference. Non-admin actors only see
// bookings they take part in.
func (s *BookingService) Get(ctx context.Context, actor *domain.Account, idOrReference string) (*domain.Booking, error) {
	booking, err := s.lookup(ctx, idOrReference)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Role != domain.RoleAdmin && !booking.InvolvesAccount(actor.ID) {
		return nil, apperrors.NewNotFound("booking", map[string]any{"id": idOrReference})
	}
	return booking, nil
}

// ListForActor returns all of the client's own bookings or the provider's
// assigned bookings, newest first.
func (s *BookingService) ListForActor(ctx context.Context, actor *domain.Account, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	filter := repository.BookingFilter{Statuses: statuses, Unbounded: true}
	switch actor.Role {
	case domain.RoleClient:
		filter.ClientID = &actor.ID
	case domain.RoleProvider:
		filter.ProviderID = &actor.ID
	case domain.RoleAdmin:
	default:
		return nil, apperrors.NewUnauthorized("insufficient role")
	}
	return s.bookings.List(ctx, filter)
}

// ListAll lists every booking for administrators.
func (s *BookingService) ListAll(ctx context.Context, statuses []domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.List(ctx, repository.BookingFilter{Statuses: statuses, Limit: limit, Offset: offset})
}

// AddressBook returns the addresses of the client's past bookings, newest first.
func (s *BookingService) AddressBook(ctx context.Context, actor *domain.Account) ([]domain.Location, error) {
	if actor.Role != domain.RoleClient {
		return nil, apperrors.NewUnauthorized("address book is only available to clients")
	}
	bookings, err := s.bookings.List(ctx, repository.BookingFilter{ClientID: &actor.ID, Unbounded: true})
	if err != nil {
		return nil, err
	}
	addresses := make([]domain.Location, 0, len(bookings))
	for _, booking := range bookings {
		addresses = append(addresses, booking.Address)
	}
	return addresses, nil
}

// History returns the status change trail of a booking the actor can see.
func (s *BookingService) History(ctx context.Context, actor *domain.Account, idOrReference string) ([]domain.BookingHistory, error) {
	booking, err := s.Get(ctx, actor, idOrReference)
	if err != nil {
		return nil, err
	}
	return s.history.ListByBooking(ctx, booking.ID)
}

// quote prices beneficiaries against the catalog plus transportation for
// distanceKm.
func (s *BookingService) quote(ctx context.Context, beneficiaries []domain.Beneficiary, distanceKm int) (domain.Price, error) {
	var subtotal float64
	if len(beneficiaries) > 0 {
		catalog, err := s.categories.List(ctx)
		if err != nil {
			return domain.Price{}, err
		}
		prices := make(map[string]float64, len(catalog))
		for _, category := range catalog {
			prices[strings.ToLower(category.Name)] = category.Price
		}
		for _, beneficiary := range beneficiaries {
			price, ok := prices[strings.ToLower(strings.TrimSpace(beneficiary.Name))]
			if !ok {
				return domain.Price{}, apperrors.NewValidationError(
					fmt.Sprintf("%s is not a valid category", beneficiary.Name),
					map[string]any{"beneficiaries": beneficiary.Name})
			}
			if beneficiary.Quantity <= 0 {
				return domain.Price{}, apperrors.NewValidationError(
					"beneficiary quantity must be positive",
					map[string]any{"beneficiaries": beneficiary.Name})
			}
			subtotal += price * float64(beneficiary.Quantity)
		}
	}

	transportation := float64(distanceKm) * s.transportRate
	return domain.Price{
		Subtotal:       roundMoney(subtotal),
		Transportation: roundMoney(transportation),
		Total:          roundMoney(subtotal + transportation),
	}, nil
}

func (s *BookingService) insert(ctx context.Context, booking *domain.Booking) error {
	var err error
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		booking.Reference = generateReference()
		err = s.bookings.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if de := apperrors.ToDomainError(err); de.HTTPStatus != http.StatusConflict {
			return err
		}
	}
	return err
}

// lookup resolves an internal id first and falls back to the short reference.
func (s *BookingService) lookup(ctx context.Context, idOrReference string) (*domain.Booking, error) {
	key := strings.TrimSpace(idOrReference)
	booking, err := s.bookings.GetByID(ctx, key)
	if err == nil {
		return booking, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}
	booking, err = s.bookings.GetByReference(ctx, strings.ToUpper(key))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"id": idOrReference})
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) recordStatusChange(ctx context.Context, actor *domain.Account, booking *domain.Booking, oldStatus domain.BookingStatus) error {
	if s.history == nil {
		return nil
	}
	entry := &domain.BookingHistory{
		BookingID:         booking.ID,
		ChangedByID:       actor.ID,
		ChangedByRole:     actor.Role,
		OldStatus:         oldStatus,
		NewStatus:         booking.Status,
		ProviderSubStatus: booking.ProviderSubStatus,
		Reason:            booking.CancellationReason,
	}
	return s.history.Create(ctx, entry)
}

func canTransition(actor *domain.Account, booking *domain.Booking) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleClient:
		return booking.Client.ID == actor.ID
	case domain.RoleProvider:
		return booking.Provider.ID == actor.ID
	}
	return false
}

func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
