package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/carenest/marketplace/internal/api/dto"
	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/service"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

// AccountHandler serves the caller's profile, payment instruments and
// provider search.
type AccountHandler struct {
	accounts *service.AccountService
	payments *service.PaymentService
}

// NewAccountHandler constructs handler.
func NewAccountHandler(accounts *service.AccountService, payments *service.PaymentService) *AccountHandler {
	return &AccountHandler{accounts: accounts, payments: payments}
}

// Me handles GET /auth/me.
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Profile fetched successfully", dto.NewAccountResponse(account))
}

// UpdateMe handles POST /auth/me.
func (h *AccountHandler) UpdateMe(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.ProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.ProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		Avatar:          req.Avatar,
		DateOfBirth:     req.DateOfBirth,
		PaymentMethod:   req.PaymentMethod,
		Bio:             req.Bio,
		ExperienceYears: req.ExperienceYears,
		Available:       req.Available,
	}
	if req.Location != nil {
		location := req.Location.Domain()
		input.Location = &location
	}
	updated, err := h.accounts.UpdateProfile(c.UserContext(), account, input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Profile updated successfully", dto.NewAccountResponse(updated))
}

// ListCards handles GET /auth/cards.
func (h *AccountHandler) ListCards(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	cards, err := h.payments.ListCards(c.UserContext(), account)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", dto.NewCardResponses(cards))
}

// AddCard handles POST /auth/cards.
func (h *AccountHandler) AddCard(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.CardRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	card, err := h.payments.AddCard(c.UserContext(), account, service.CardInput{
		Number: req.Number,
		Brand:  req.Brand,
		Expiry: req.Expiry,
		CVV:    req.CVV,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Card added successfully", dto.NewCardResponse(card))
}

// SetActiveCard handles PUT /auth/cards/:id.
func (h *AccountHandler) SetActiveCard(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	cards, err := h.payments.SetActiveCard(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Active card updated", dto.NewCardResponses(cards))
}

// ListBanks handles GET /auth/banks.
func (h *AccountHandler) ListBanks(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	banks, err := h.payments.ListBanks(c.UserContext(), account)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", dto.NewBankResponses(banks))
}

// AddBank handles POST /auth/banks.
func (h *AccountHandler) AddBank(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.BankRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	bank, err := h.payments.AddBank(c.UserContext(), account, service.BankInput{
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		BankName:      req.BankName,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Bank account added successfully", dto.NewBankResponse(bank))
}

// SetActiveBank handles PUT /auth/banks/:id.
func (h *AccountHandler) SetActiveBank(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	banks, err := h.payments.SetActiveBank(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Active bank account updated", dto.NewBankResponses(banks))
}

// SearchProviders handles GET /orders/providers.
func (h *AccountHandler) SearchProviders(c *fiber.Ctx) error {
	search := service.ProviderSearch{
		Name:        c.Query("name"),
		CategoryIDs: parseCSV(c.Query("categories")),
	}
	if raw := c.Query("rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return apperrors.NewValidationError("rating must be a number", map[string]any{"rating": raw})
		}
		search.MinRating = &rating
	}
	search.Limit, search.Offset = pagination(c)

	providers, err := h.accounts.SearchProviders(c.UserContext(), search)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Search result retrieved", dto.NewAccountResponses(providers))
}

// ListAccounts handles GET /admin/accounts.
func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	var role *domain.Role
	if raw := c.Query("role"); raw != "" {
		parsed, ok := domain.ParseRole(raw)
		if !ok {
			return apperrors.NewValidationError(raw+" is not a valid role", nil)
		}
		role = &parsed
	}
	limit, offset := pagination(c)
	accounts, err := h.accounts.List(c.UserContext(), role, limit, offset)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", dto.NewAccountResponses(accounts))
}

// GetAccount handles GET /admin/accounts/:id.
func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	account, err := h.accounts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("account", map[string]any{"id": c.Params("id")})
		}
		return err
	}
	return respond(c, http.StatusOK, "", dto.NewAccountResponse(account))
}

// Suspend handles PUT /admin/accounts/:id/suspend.
func (h *AccountHandler) Suspend(c *fiber.Ctx) error {
	admin, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.SuspendRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, err := h.accounts.SetSuspended(c.UserContext(), admin, c.Params("id"), *req.Suspended)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Account updated successfully", dto.NewAccountResponse(account))
}
