package events

import (
	"time"

	"github.com/carenest/marketplace/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPhoneSessionIssued   EventType = "phone_session_issued"
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
	EventReviewSubmitted      EventType = "review_submitted"
)

// Actor identifies the account that caused an event. Empty for
// unauthenticated calls.
type Actor struct {
	ID   string      `json:"id,omitempty"`
	Role domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PhoneSessionIssuedPayload carries the code to the SMS channel. It must not
// be logged.
type PhoneSessionIssuedPayload struct {
	Phone     domain.Phone `json:"-"`
	OTP       string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	Reference  string  `json:"reference"`
	ClientID   string  `json:"client_id"`
	ProviderID string  `json:"provider_id"`
	Total      float64 `json:"total"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	Reference         string                    `json:"reference"`
	ClientID          string                    `json:"client_id"`
	ProviderID        string                    `json:"provider_id"`
	OldStatus         domain.BookingStatus      `json:"old_status"`
	NewStatus         domain.BookingStatus      `json:"new_status"`
	ProviderSubStatus *domain.ProviderSubStatus `json:"provider_sub_status,omitempty"`
	Reason            *string                   `json:"reason,omitempty"`
}

// ReviewSubmittedPayload payload.
type ReviewSubmittedPayload struct {
	ProviderID string  `json:"provider_id"`
	Rating     float64 `json:"rating"`
	NewAverage float64 `json:"new_average"`
}
