package dto

import (
	"time"

	"github.com/carenest/marketplace/internal/domain"
)

// CategoryRequest creates or updates a catalog category.
type CategoryRequest struct {
	Name  string  `json:"name" validate:"required,max=80"`
	Price float64 `json:"price" validate:"gte=0"`
}

// SuspendRequest blocks or restores an account.
type SuspendRequest struct {
	Suspended *bool `json:"suspended" validate:"required"`
}

// CategoryResponse is a catalog entry.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Price: c.Price, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

// NewCategoryResponses maps the catalog.
func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, NewCategoryResponse(&categories[i]))
	}
	return items
}
