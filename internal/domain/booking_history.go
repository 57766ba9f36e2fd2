package domain

import "time"

// BookingHistory is an immutable status change entry.
type BookingHistory struct {
	ID                string
	BookingID         string
	ChangedByID       string
	ChangedByRole     Role
	OldStatus         BookingStatus
	NewStatus         BookingStatus
	ProviderSubStatus *ProviderSubStatus
	Reason            *string
	CreatedAt         time.Time
}
