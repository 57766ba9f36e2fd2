package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/carenest/marketplace/internal/api/dto"
	"github.com/carenest/marketplace/internal/service"
)

// CatalogHandler manages categories for administrators.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List handles GET /admin/categories.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	categories, err := h.catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", dto.NewCategoryResponses(categories))
}

// Create handles POST /admin/categories.
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.catalog.Create(c.UserContext(), service.CategoryInput{Name: req.Name, Price: req.Price})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Category created successfully", dto.NewCategoryResponse(category))
}

// Update handles PUT /admin/categories/:id.
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.catalog.Update(c.UserContext(), c.Params("id"), service.CategoryInput{Name: req.Name, Price: req.Price})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Category updated successfully", dto.NewCategoryResponse(category))
}
