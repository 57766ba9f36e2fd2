package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/carenest/marketplace/internal/api/dto"
	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/service"
)

// BookingHandler manages booking and review endpoints.
type BookingHandler struct {
	bookings *service.BookingService
	reviews  *service.ReviewService
}

// NewBookingHandler constructs handler.
func NewBookingHandler(bookings *service.BookingService, reviews *service.ReviewService) *BookingHandler {
	return &BookingHandler{bookings: bookings, reviews: reviews}
}

// Create handles POST /orders.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	booking, err := h.bookings.Create(c.UserContext(), account, service.CreateBookingInput{
		ProviderID:    req.Provider,
		Address:       req.Address.Domain(),
		Start:         domain.Schedule{Date: req.Start.Date, Time: req.Start.Time},
		End:           domain.Schedule{Date: req.End.Date, Time: req.End.Time},
		Beneficiaries: req.DomainBeneficiaries(),
		PaymentMethod: req.PaymentMethod,
		Comment:       req.Comment,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Order created successfully", dto.NewBookingResponse(booking))
}

// List handles GET /orders.
func (h *BookingHandler) List(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	bookings, err := h.bookings.ListForActor(c.UserContext(), account, parseStatuses(c.Query("status")))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Orders fetched successfully", dto.NewBookingResponses(bookings))
}

// Get handles GET /orders/:id and GET /admin/orders/:id.
func (h *BookingHandler) Get(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	booking, err := h.bookings.Get(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Order fetched successfully", dto.NewBookingResponse(booking))
}

// Update handles PUT /orders/:id.
func (h *BookingHandler) Update(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.UpdateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	booking, err := h.bookings.Transition(c.UserContext(), account, c.Params("id"), service.TransitionInput{
		Status: req.Status,
		Reason: req.Reason,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Order updated successfully", dto.NewBookingResponse(booking))
}

// History handles GET /orders/:id/history.
func (h *BookingHandler) History(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	entries, err := h.bookings.History(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", dto.NewHistoryResponses(entries))
}

// AddressBook handles GET /orders/address.
func (h *BookingHandler) AddressBook(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	addresses, err := h.bookings.AddressBook(c.UserContext(), account)
	if err != nil {
		return err
	}
	items := make([]dto.Location, 0, len(addresses))
	for _, address := range addresses {
		items = append(items, dto.Location{Lat: address.Lat, Long: address.Long})
	}
	return respond(c, http.StatusOK, "Address Book fetched successfully", items)
}

// ListAll handles GET /admin/orders.
func (h *BookingHandler) ListAll(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	bookings, err := h.bookings.ListAll(c.UserContext(), parseStatuses(c.Query("status")), limit, offset)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Orders fetched successfully", dto.NewBookingResponses(bookings))
}

// SubmitReview handles POST /orders/reviews.
func (h *BookingHandler) SubmitReview(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Submit(c.UserContext(), account, service.SubmitReviewInput{
		ProviderID: req.Provider,
		Rating:     *req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Review posted successfully", dto.NewReviewResponse(review))
}

// ListReviews handles GET /orders/reviews.
func (h *BookingHandler) ListReviews(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	reviews, err := h.reviews.ListForProvider(c.UserContext(), account)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Reviews fetched successfully", dto.NewReviewResponses(reviews))
}
