package dto

import (
	"time"

	"github.com/carenest/marketplace/internal/domain"
)

// PhoneRequest starts phone verification.
type PhoneRequest struct {
	Code   string `json:"code" validate:"required"`
	Number string `json:"number" validate:"required"`
}

// VerifyOTPRequest completes phone verification.
type VerifyOTPRequest struct {
	Code   string `json:"code" validate:"required"`
	Number string `json:"number" validate:"required"`
	OTP    string `json:"otp" validate:"required"`
	Role   string `json:"role"`
}

// AdminLoginRequest payload for administrator sign-in.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest is a partial profile update.
type ProfileRequest struct {
	Name            *string      `json:"name" validate:"omitempty,max=120"`
	Email           *string      `json:"email" validate:"omitempty,email"`
	Avatar          *string      `json:"avatar" validate:"omitempty,url"`
	DateOfBirth     *string      `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Location        *Coordinates `json:"location"`
	PaymentMethod   *string      `json:"paymentMethod"`
	Bio             *string      `json:"bio" validate:"omitempty,max=1000"`
	ExperienceYears *string      `json:"experienceYears"`
	Available       *bool        `json:"available"`
}

// CardRequest registers a payment card.
type CardRequest struct {
	Number string `json:"number" validate:"required"`
	Brand  string `json:"brand"`
	Expiry string `json:"expiry" validate:"omitempty,max=7"`
	CVV    string `json:"cvv" validate:"omitempty,numeric,min=3,max=4"`
}

// BankRequest registers a payout account.
type BankRequest struct {
	AccountNumber string `json:"accountNumber" validate:"required,numeric"`
	AccountName   string `json:"accountName"`
	BankName      string `json:"bankName"`
}

// Coordinates is a coordinate pair supplied by a client. Both axes are
// required so that an omitted value never turns into 0.
type Coordinates struct {
	Lat  *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Long *float64 `json:"long" validate:"required,gte=-180,lte=180"`
}

// Domain converts validated coordinates.
func (l Coordinates) Domain() domain.Location {
	var loc domain.Location
	if l.Lat != nil {
		loc.Lat = *l.Lat
	}
	if l.Long != nil {
		loc.Long = *l.Long
	}
	return loc
}

// Location is a coordinate pair as rendered in responses.
type Location struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// PhoneResponse is the phone shape shared by sessions and accounts.
type PhoneResponse struct {
	Code   string `json:"code"`
	Number string `json:"number"`
}

// PhoneSessionResponse echoes an issued session. OTP is only populated when
// the deployment exposes codes for development.
type PhoneSessionResponse struct {
	Phone     PhoneResponse `json:"phone"`
	OTP       string        `json:"otp,omitempty"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// AccountResponse is the public account shape. Provider fields are omitted
// for other roles.
type AccountResponse struct {
	ID              string                    `json:"id"`
	Type            domain.Role               `json:"type"`
	Phone           *PhoneResponse            `json:"phone,omitempty"`
	Name            string                    `json:"name"`
	Email           string                    `json:"email,omitempty"`
	Avatar          string                    `json:"avatar,omitempty"`
	DateOfBirth     string                    `json:"dateOfBirth,omitempty"`
	Location        Location                  `json:"location"`
	PaymentMethod   string                    `json:"paymentMethod,omitempty"`
	Suspended       bool                      `json:"suspended"`
	Rating          *float64                  `json:"rating,omitempty"`
	Categories      []domain.CategorySnapshot `json:"categories,omitempty"`
	Available       *bool                     `json:"available,omitempty"`
	Bio             string                    `json:"bio,omitempty"`
	ExperienceYears string                    `json:"experienceYears,omitempty"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

// CardResponse shows display fields only.
type CardResponse struct {
	ID        string    `json:"id"`
	Brand     string    `json:"brand"`
	Last4     string    `json:"last4"`
	Expiry    string    `json:"expiry,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// BankResponse shows a payout account.
type BankResponse struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"accountNumber"`
	AccountName   string    `json:"accountName,omitempty"`
	BankName      string    `json:"bankName,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewPhoneSessionResponse maps an issued session.
func NewPhoneSessionResponse(session *domain.PhoneSession, exposeOTP bool) PhoneSessionResponse {
	resp := PhoneSessionResponse{
		Phone:     PhoneResponse{Code: session.Phone.Code, Number: session.Phone.Number},
		ExpiresAt: session.ExpiresAt,
	}
	if exposeOTP {
		resp.OTP = session.OTP
	}
	return resp
}

// NewAccountResponse maps an account.
func NewAccountResponse(account *domain.Account) AccountResponse {
	resp := AccountResponse{
		ID:            account.ID,
		Type:          account.Role,
		Name:          account.Name,
		Email:         account.Email,
		Avatar:        account.Avatar,
		DateOfBirth:   account.DateOfBirth,
		Location:      Location{Lat: account.Location.Lat, Long: account.Location.Long},
		PaymentMethod: account.PaymentMethod,
		Suspended:     account.Suspended,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
	if !account.Phone.IsZero() {
		resp.Phone = &PhoneResponse{Code: account.Phone.Code, Number: account.Phone.Number}
	}
	if profile := account.Provider; profile != nil {
		rating := profile.Rating
		available := profile.Available
		resp.Rating = &rating
		resp.Available = &available
		resp.Categories = profile.Categories
		resp.Bio = profile.Bio
		resp.ExperienceYears = profile.ExperienceYears
	}
	return resp
}

// NewAccountResponses maps a list of accounts.
func NewAccountResponses(accounts []domain.Account) []AccountResponse {
	items := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, NewAccountResponse(&accounts[i]))
	}
	return items
}

// NewCardResponses maps cards.
func NewCardResponses(cards []domain.Card) []CardResponse {
	items := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		items = append(items, NewCardResponse(&card))
	}
	return items
}

// NewCardResponse maps a card.
func NewCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:        card.ID,
		Brand:     card.Brand,
		Last4:     card.Last4,
		Expiry:    card.Expiry,
		Active:    card.Active,
		CreatedAt: card.CreatedAt,
	}
}

// NewBankResponses maps payout accounts.
func NewBankResponses(banks []domain.BankAccount) []BankResponse {
	items := make([]BankResponse, 0, len(banks))
	for _, bank := range banks {
		items = append(items, NewBankResponse(&bank))
	}
	return items
}

// NewBankResponse maps a payout account.
func NewBankResponse(bank *domain.BankAccount) BankResponse {
	return BankResponse{
		ID:            bank.ID,
		AccountNumber: bank.AccountNumber,
		AccountName:   bank.AccountName,
		BankName:      bank.BankName,
		Active:        bank.Active,
		CreatedAt:     bank.CreatedAt,
	}
}
