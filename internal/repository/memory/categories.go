package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carenest/marketplace/internal/domain"
)

type categoryRepository struct {
	s *Store
}

func (r *categoryRepository) nameTaken(name, exceptID string) bool {
	for id, existing := range r.s.categories {
		if id != exceptID && existing.Name == name {
			return true
		}
	}
	return false
}

func (r *categoryRepository) Create(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(category.Name, "") {
		return uniqueViolation("categories_name_key")
	}
	now := r.s.now()
	category.ID = uuid.NewString()
	category.CreatedAt = now
	category.UpdatedAt = now
	stored := *category
	r.s.categories[category.ID] = &stored
	return nil
}

func (r *categoryRepository) Update(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(category.ID); err != nil {
		return err
	}
	stored, ok := r.s.categories[category.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if r.nameTaken(category.Name, category.ID) {
		return uniqueViolation("categories_name_key")
	}
	stored.Name = category.Name
	stored.Price = category.Price
	stored.UpdatedAt = r.s.now()
	category.CreatedAt = stored.CreatedAt
	category.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *categoryRepository) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validID(id); err != nil {
		return nil, err
	}
	category, ok := r.s.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *category
	return &out, nil
}

func (r *categoryRepository) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.Category, 0, len(r.s.categories))
	for _, category := range r.s.categories {
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
