package domain

import "time"

// Card is a client payment card. Only the last four digits are kept.
type Card struct {
	ID        string
	OwnerID   string
	Brand     string
	Last4     string
	Expiry    string
	Verified  bool
	Active    bool
	CreatedAt time.Time
}

// BankAccount is a provider payout account.
type BankAccount struct {
	ID            string
	OwnerID       string
	AccountNumber string
	AccountName   string
	BankName      string
	Active        bool
	CreatedAt     time.Time
}
