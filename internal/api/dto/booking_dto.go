package dto

import (
	"time"

	"github.com/carenest/marketplace/internal/domain"
)

// CreateBookingRequest payload.
type CreateBookingRequest struct {
	Provider      string        `json:"provider" validate:"required"`
	Address       *Coordinates  `json:"address" validate:"required"`
	Start         Schedule      `json:"start"`
	End           Schedule      `json:"end"`
	Beneficiaries []Beneficiary `json:"beneficiaries" validate:"dive"`
	PaymentMethod string        `json:"paymentMethod"`
	Comment       string        `json:"comment" validate:"max=1000"`
}

// UpdateBookingRequest asks for a status change.
type UpdateBookingRequest struct {
	Status string  `json:"status" validate:"required"`
	Reason *string `json:"reason"`
}

// ReviewRequest rates a provider.
type ReviewRequest struct {
	Provider string   `json:"provider" validate:"required"`
	Rating   *float64 `json:"rating" validate:"required,gte=0,lte=5"`
	Comment  string   `json:"comment" validate:"max=1000"`
}

// Schedule is one end of the booking window.
type Schedule struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Beneficiary is a category line item.
type Beneficiary struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

// DomainBeneficiaries converts the request line items.
func (r CreateBookingRequest) DomainBeneficiaries() []domain.Beneficiary {
	items := make([]domain.Beneficiary, 0, len(r.Beneficiaries))
	for _, b := range r.Beneficiaries {
		items = append(items, domain.Beneficiary{Name: b.Name, Quantity: b.Quantity})
	}
	return items
}

// BookingClient is the client snapshot on a booking.
type BookingClient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookingProvider is the provider snapshot on a booking.
type BookingProvider struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	DateOfBirth string                    `json:"dateOfBirth"`
	Rating      float64                   `json:"rating"`
	Distance    int                       `json:"distance"`
	Status      *domain.ProviderSubStatus `json:"status"`
}

// Price is the booking price breakdown.
type Price struct {
	Subtotal       float64 `json:"subtotal"`
	Transportation float64 `json:"transportation"`
	Total          float64 `json:"total"`
}

// BookingResponse is the full booking shape.
type BookingResponse struct {
	ID                   string               `json:"id"`
	ReferenceID          string               `json:"referenceId"`
	Status               domain.BookingStatus `json:"status"`
	Client               BookingClient        `json:"client"`
	Provider             BookingProvider      `json:"provider"`
	Price                Price                `json:"price"`
	Address              Location             `json:"address"`
	Start                Schedule             `json:"start"`
	End                  Schedule             `json:"end"`
	Beneficiaries        []Beneficiary        `json:"beneficiaries"`
	PaymentMethod        string               `json:"paymentMethod,omitempty"`
	Comment              string               `json:"comment,omitempty"`
	EstimatedArrivalTime int                  `json:"estimatedArrivalTime"`
	CancellationReason   *string              `json:"cancellationReason,omitempty"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// HistoryResponse is one status change entry.
type HistoryResponse struct {
	ID                string                    `json:"id"`
	ChangedBy         string                    `json:"changedBy"`
	ChangedByRole     domain.Role               `json:"changedByRole"`
	OldStatus         domain.BookingStatus      `json:"oldStatus"`
	NewStatus         domain.BookingStatus      `json:"newStatus"`
	ProviderSubStatus *domain.ProviderSubStatus `json:"providerStatus,omitempty"`
	Reason            *string                   `json:"reason,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
}

// ReviewResponse is a stored review.
type ReviewResponse struct {
	ID       string        `json:"id"`
	Reviewer BookingClient `json:"reviewer"`
	Provider string        `json:"provider"`
	Rating   float64       `json:"rating"`
	Comment  string        `json:"comment,omitempty"`
	Created  time.Time     `json:"createdAt"`
}

// NewBookingResponse maps a booking.
func NewBookingResponse(b *domain.Booking) BookingResponse {
	beneficiaries := make([]Beneficiary, 0, len(b.Beneficiaries))
	for _, item := range b.Beneficiaries {
		beneficiaries = append(beneficiaries, Beneficiary{Name: item.Name, Quantity: item.Quantity})
	}
	return BookingResponse{
		ID:          b.ID,
		ReferenceID: b.Reference,
		Status:      b.Status,
		Client:      BookingClient{ID: b.Client.ID, Name: b.Client.Name},
		Provider: BookingProvider{
			ID:          b.Provider.ID,
			Name:        b.Provider.Name,
			DateOfBirth: b.Provider.DateOfBirth,
			Rating:      b.Provider.Rating,
			Distance:    b.Provider.DistanceKm,
			Status:      b.ProviderSubStatus,
		},
		Price:                Price{Subtotal: b.Price.Subtotal, Transportation: b.Price.Transportation, Total: b.Price.Total},
		Address:              Location{Lat: b.Address.Lat, Long: b.Address.Long},
		Start:                Schedule{Date: b.Start.Date, Time: b.Start.Time},
		End:                  Schedule{Date: b.End.Date, Time: b.End.Time},
		Beneficiaries:        beneficiaries,
		PaymentMethod:        b.PaymentMethod,
		Comment:              b.Comment,
		EstimatedArrivalTime: b.EstimatedArrivalMinutes,
		CancellationReason:   b.CancellationReason,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

// NewBookingResponses maps a list of bookings.
func NewBookingResponses(bookings []domain.Booking) []BookingResponse {
	items := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, NewBookingResponse(&bookings[i]))
	}
	return items
}

// NewHistoryResponses maps status history.
func NewHistoryResponses(entries []domain.BookingHistory) []HistoryResponse {
	items := make([]HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, HistoryResponse{
			ID:                entry.ID,
			ChangedBy:         entry.ChangedByID,
			ChangedByRole:     entry.ChangedByRole,
			OldStatus:         entry.OldStatus,
			NewStatus:         entry.NewStatus,
			ProviderSubStatus: entry.ProviderSubStatus,
			Reason:            entry.Reason,
			CreatedAt:         entry.CreatedAt,
		})
	}
	return items
}

// NewReviewResponse maps a review.
func NewReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:       r.ID,
		Reviewer: BookingClient{ID: r.Reviewer.ID, Name: r.Reviewer.Name},
		Provider: r.ProviderID,
		Rating:   r.Rating,
		Comment:  r.Comment,
		Created:  r.CreatedAt,
	}
}

// NewReviewResponses maps reviews.
func NewReviewResponses(reviews []domain.Review) []ReviewResponse {
	items := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, NewReviewResponse(&reviews[i]))
	}
	return items
}
