package domain

import "time"

// ReviewerSnapshot is the reviewer identity captured when the review is posted.
type ReviewerSnapshot struct {
	ID   string
	Name string
}

// Review is append-only.
type Review struct {
	ID         string
	Reviewer   ReviewerSnapshot
	ProviderID string
	Rating     float64
	Comment    string
	CreatedAt  time.Time
}
