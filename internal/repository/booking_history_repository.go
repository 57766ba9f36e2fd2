package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carenest/marketplace/internal/domain"
)

// BookingHistoryRepository stores status change audit entries.
type BookingHistoryRepository interface {
	Create(ctx context.Context, history *domain.BookingHistory) error
	ListByBooking(ctx context.Context, bookingID string) ([]domain.BookingHistory, error)
}

type bookingHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewBookingHistoryRepository builds repository.
func NewBookingHistoryRepository(pool *pgxpool.Pool) BookingHistoryRepository {
	return &bookingHistoryRepository{pool: pool}
}

func (r *bookingHistoryRepository) Create(ctx context.Context, history *domain.BookingHistory) error {
	const query = `
        INSERT INTO booking_history (booking_id, changed_by_id, changed_by_role, old_status, new_status, provider_sub_status, reason)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		history.BookingID,
		history.ChangedByID,
		history.ChangedByRole,
		history.OldStatus,
		history.NewStatus,
		history.ProviderSubStatus,
		history.Reason,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *bookingHistoryRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.BookingHistory, error) {
	const query = `
        SELECT id, booking_id, changed_by_id, changed_by_role, old_status, new_status, provider_sub_status, reason, created_at
        FROM booking_history WHERE booking_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BookingHistory
	for rows.Next() {
		var history domain.BookingHistory
		if err := rows.Scan(
			&history.ID,
			&history.BookingID,
			&history.ChangedByID,
			&history.ChangedByRole,
			&history.OldStatus,
			&history.NewStatus,
			&history.ProviderSubStatus,
			&history.Reason,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
