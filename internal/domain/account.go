package domain

import (
	"strings"
	"time"
)

// Role tags an account variant. It is fixed at creation.
type Role string

const (
	RoleClient   Role = "Client"
	RoleProvider Role = "Provider"
	RoleAdmin    Role = "Admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// ParseRole matches raw against the known roles ignoring case.
func ParseRole(raw string) (Role, bool) {
	for _, role := range []Role{RoleClient, RoleProvider, RoleAdmin} {
		if strings.EqualFold(string(role), strings.TrimSpace(raw)) {
			return role, true
		}
	}
	return "", false
}

// Phone identifies an account by country code and national number.
type Phone struct {
	Code   string
	Number string
}

// E164 renders the phone as +<code><number>.
func (p Phone) E164() string {
	return "+" + p.Code + p.Number
}

// IsZero reports whether no phone is set (admin accounts).
func (p Phone) IsZero() bool {
	return p.Code == "" && p.Number == ""
}

// Location is a coordinate pair in decimal degrees.
type Location struct {
	Lat  float64
	Long float64
}

// Account holds the fields shared by every role. Provider is non-nil only
// when Role is RoleProvider.
type Account struct {
	ID            string
	Role          Role
	Phone         Phone
	Name          string
	Email         string
	Avatar        string
	DateOfBirth   string
	Location      Location
	PaymentMethod string
	PasswordHash  string
	Suspended     bool
	Provider      *ProviderProfile
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProviderProfile carries the provider-only fields.
type ProviderProfile struct {
	// Rating is derived from reviews and never edited directly.
	Rating          float64
	Categories      []CategorySnapshot
	Available       bool
	Bio             string
	ExperienceYears string
}

// IsProvider reports whether the account is a provider.
func (a *Account) IsProvider() bool {
	return a != nil && a.Role == RoleProvider
}

// Rating returns the provider aggregate rating, or zero for other roles.
func (a *Account) Rating() float64 {
	if a == nil || a.Provider == nil {
		return 0
	}
	return a.Provider.Rating
}
