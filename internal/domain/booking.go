package domain

import "time"

// BookingStatus enumerates the primary lifecycle states.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusOngoing   BookingStatus = "ongoing"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRejected  BookingStatus = "rejected"
)

// BookingStatuses lists every primary status.
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusAccepted,
	BookingStatusOngoing,
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusRejected,
}

// Valid reports whether s is a primary status.
func (s BookingStatus) Valid() bool {
	for _, candidate := range BookingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the lifecycle by convention.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusRejected
}

// ProviderSubStatus is the en-route state, only set while a booking is accepted.
type ProviderSubStatus string

const (
	SubStatusOnMyWay ProviderSubStatus = "on my way"
	SubStatusArrived ProviderSubStatus = "arrived"
)

// Valid reports whether s is an en-route value.
func (s ProviderSubStatus) Valid() bool {
	return s == SubStatusOnMyWay || s == SubStatusArrived
}

// ClientSnapshot is the client identity captured at booking time.
type ClientSnapshot struct {
	ID   string
	Name string
}

// ProviderSnapshot is the provider identity captured at booking time.
type ProviderSnapshot struct {
	ID          string
	Name        string
	DateOfBirth string
	Rating      float64
	DistanceKm  int
}

// Price is the booking price breakdown.
type Price struct {
	Subtotal       float64
	Transportation float64
	Total          float64
}

// Schedule is one end of a booking window.
type Schedule struct {
	Date string
	Time string
}

// Beneficiary is a line item referencing a catalog category by name.
type Beneficiary struct {
	Name     string
	Quantity int
}

// Booking is a client's reservation of a provider. Client and Provider are
// snapshots taken at creation; only status fields change afterwards.
type Booking struct {
	ID                      string
	Reference               string
	Status                  BookingStatus
	ProviderSubStatus       *ProviderSubStatus
	Client                  ClientSnapshot
	Provider                ProviderSnapshot
	Price                   Price
	Address                 Location
	Start                   Schedule
	End                     Schedule
	Beneficiaries           []Beneficiary
	PaymentMethod           string
	Comment                 string
	EstimatedArrivalMinutes int
	CancellationReason      *string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// InvolvesAccount reports whether accountID is the booking's client or provider.
func (b *Booking) InvolvesAccount(accountID string) bool {
	return b.Client.ID == accountID || b.Provider.ID == accountID
}
