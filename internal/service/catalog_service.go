package service

import (
	"context"
	"strings"

	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/repository"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

// CatalogService manages the service category catalog.
type CatalogService struct {
	categories repository.CategoryRepository
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name  string
	Price float64
}

// NewCatalogService constructs the service.
func NewCatalogService(categories repository.CategoryRepository) *CatalogService {
	return &CatalogService{categories: categories}
}

// List returns every category ordered by name.
func (s *CatalogService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Create adds a category.
func (s *CatalogService) Create(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	category := &domain.Category{Name: strings.TrimSpace(input.Name), Price: input.Price}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update renames or reprices a category. Provider snapshots taken earlier
// keep the old name.
func (s *CatalogService) Update(ctx context.Context, id string, input CategoryInput) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(input.Name)
	category.Price = input.Price
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func validateCategory(category *domain.Category) error {
	if category.Name == "" {
		return apperrors.NewValidationError("name is required", map[string]any{"name": "required"})
	}
	if category.Price < 0 {
		return apperrors.NewValidationError("price must not be negative", map[string]any{"price": "min"})
	}
	return nil
}
