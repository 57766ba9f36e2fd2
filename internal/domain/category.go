package domain

import "time"

// Category is a catalog entry providers can be affiliated with.
type Category struct {
	ID        string
	Name      string
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategorySnapshot is the copy of a category stored on a provider at provisioning.
type CategorySnapshot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snapshot returns the provider-facing copy of c.
func (c Category) Snapshot() CategorySnapshot {
	return CategorySnapshot{ID: c.ID, Name: c.Name}
}
