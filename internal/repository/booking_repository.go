package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carenest/marketplace/internal/domain"
)

// BookingFilter captures listing parameters.
type BookingFilter struct {
	ClientID   *string
	ProviderID *string
	Statuses   []domain.BookingStatus
	Limit      int
	Offset     int
	// Unbounded returns every match and ignores Limit and Offset.
	Unbounded  bool
}

// BookingRepository encapsulates booking persistence. Client and provider
// snapshots are written once by Create; UpdateStatus only touches the
// status fields.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	UpdateStatus(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingColumns = `id, reference, status, provider_sub_status, client_id, client_name,
               provider_id, provider_name, provider_date_of_birth, provider_rating, provider_distance_km,
               subtotal, transportation, total, address_lat, address_long,
               start_date, start_time, end_date, end_time, beneficiaries, payment_method, comment,
               estimated_arrival_minutes, cancellation_reason, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (reference, status, provider_sub_status, client_id, client_name,
            provider_id, provider_name, provider_date_of_birth, provider_rating, provider_distance_km,
            subtotal, transportation, total, address_lat, address_long,
            start_date, start_time, end_date, end_time, beneficiaries, payment_method, comment,
            estimated_arrival_minutes, cancellation_reason)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
        RETURNING id, created_at, updated_at`

	beneficiaries := booking.Beneficiaries
	if beneficiaries == nil {
		beneficiaries = []domain.Beneficiary{}
	}
	return r.pool.QueryRow(ctx, query,
		booking.Reference,
		booking.Status,
		booking.ProviderSubStatus,
		booking.Client.ID,
		booking.Client.Name,
		booking.Provider.ID,
		booking.Provider.Name,
		booking.Provider.DateOfBirth,
		booking.Provider.Rating,
		booking.Provider.DistanceKm,
		booking.Price.Subtotal,
		booking.Price.Transportation,
		booking.Price.Total,
		booking.Address.Lat,
		booking.Address.Long,
		booking.Start.Date,
		booking.Start.Time,
		booking.End.Date,
		booking.End.Time,
		beneficiaries,
		booking.PaymentMethod,
		booking.Comment,
		booking.EstimatedArrivalMinutes,
		booking.CancellationReason,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	const query = `
        UPDATE bookings SET status=$1, provider_sub_status=$2, cancellation_reason=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		booking.Status,
		booking.ProviderSubStatus,
		booking.CancellationReason,
		booking.ID,
	).Scan(&booking.UpdatedAt)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id=$1`
	return scanBooking(r.pool.QueryRow(ctx, query, id))
}

func (r *bookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference=$1`
	return scanBooking(r.pool.QueryRow(ctx, query, reference))
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.ProviderID != nil {
		args = append(args, *filter.ProviderID)
		clauses = append(clauses, fmt.Sprintf("provider_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s ORDER BY created_at DESC`,
		bookingColumns, strings.Join(clauses, " AND "))
	if !filter.Unbounded {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *booking)
	}
	return result, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var booking domain.Booking
	if err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.Status,
		&booking.ProviderSubStatus,
		&booking.Client.ID,
		&booking.Client.Name,
		&booking.Provider.ID,
		&booking.Provider.Name,
		&booking.Provider.DateOfBirth,
		&booking.Provider.Rating,
		&booking.Provider.DistanceKm,
		&booking.Price.Subtotal,
		&booking.Price.Transportation,
		&booking.Price.Total,
		&booking.Address.Lat,
		&booking.Address.Long,
		&booking.Start.Date,
		&booking.Start.Time,
		&booking.End.Date,
		&booking.End.Time,
		&booking.Beneficiaries,
		&booking.PaymentMethod,
		&booking.Comment,
		&booking.EstimatedArrivalMinutes,
		&booking.CancellationReason,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}
