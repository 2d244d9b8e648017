package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	"github.com/heya-pos/HEYA-BookingService/pkg/dbmetrics"
	"github.com/heya-pos/HEYA-BookingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов (см. pkg/dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий merchant-level политики бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByMerchant получает политику бронирований мерчанта
func (r *Repository) GetByMerchant(ctx context.Context, merchantID string) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"merchant_id",
		"advance_booking_hours",
		"cancellation_hours",
		"booking_buffer_minutes",
		"allow_unassigned_bookings",
		"show_unassigned_column",
		"created_at",
		"updated_at",
	).
		From("merchant_booking_policies").
		Where(squirrel.Eq{"merchant_id": merchantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByMerchant - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.BookingPolicy
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.MerchantID,
		&p.AdvanceBookingHours,
		&p.CancellationHours,
		&p.BookingBufferMinutes,
		&p.AllowUnassignedBookings,
		&p.ShowUnassignedColumn,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMerchant - scan policy: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// Upsert создает или обновляет политику мерчанта
func (r *Repository) Upsert(ctx context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("merchant_booking_policies").
		Columns(
			"merchant_id",
			"advance_booking_hours",
			"cancellation_hours",
			"booking_buffer_minutes",
			"allow_unassigned_bookings",
			"show_unassigned_column",
		).
		Values(
			p.MerchantID,
			p.AdvanceBookingHours,
			p.CancellationHours,
			p.BookingBufferMinutes,
			p.AllowUnassignedBookings,
			p.ShowUnassignedColumn,
		).
		Suffix(`ON CONFLICT (merchant_id) DO UPDATE SET
			advance_booking_hours = EXCLUDED.advance_booking_hours,
			cancellation_hours = EXCLUDED.cancellation_hours,
			booking_buffer_minutes = EXCLUDED.booking_buffer_minutes,
			allow_unassigned_bookings = EXCLUDED.allow_unassigned_bookings,
			show_unassigned_column = EXCLUDED.show_unassigned_column,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}
