package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	"github.com/heya-pos/HEYA-BookingService/pkg/dbmetrics"
	"github.com/heya-pos/HEYA-BookingService/pkg/psqlbuilder"
)

// bookingColumns полный список колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"merchant_id",
	"customer_id",
	"location_id",
	"staff_id",
	"start_time",
	"end_time",
	"duration_minutes",
	"padding_before_minutes",
	"padding_after_minutes",
	"status",
	"service_ids",
	"service_names",
	"total_price",
	"notes",
	"override_reason",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// occupyingStatusStrings статусы, занимающие время мастера, в виде строк для SQL
var occupyingStatusStrings = statusStrings(domain.OccupyingStatuses)

// Repository репозиторий для работы с бронированиями.
// Одновременно служит индексом конфликтов: FindConflicts/GetOccupyingByLocationAndDate
// отражают последнее закоммиченное состояние на момент вызова.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её — при создании
// с проверкой доступности слота вставка обязана идти в той же транзакции,
// что и финальная проверка конфликтов.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"merchant_id",
			"customer_id",
			"location_id",
			"staff_id",
			"start_time",
			"end_time",
			"duration_minutes",
			"padding_before_minutes",
			"padding_after_minutes",
			"status",
			"service_ids",
			"service_names",
			"total_price",
			"notes",
			"override_reason",
		).
		Values(
			b.ID,
			b.MerchantID,
			b.CustomerID,
			b.LocationID,
			b.StaffID,
			b.StartTime,
			b.EndTime,
			b.DurationMinutes,
			b.PaddingBeforeMinutes,
			b.PaddingAfterMinutes,
			b.Status,
			pq.Array(b.ServiceIDs),
			pq.Array(b.ServiceNames),
			b.TotalPrice,
			b.Notes,
			b.OverrideReason,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	return bookings[0], nil
}

// FindConflicts возвращает занимающие время бронирования мастера, чей
// интервал с учетом паддинга пересекает [paddedStart, paddedEnd).
// excludeBookingID позволяет переносу игнорировать собственное бронирование.
//
// Внутри транзакции добавляется FOR UPDATE: это финальная проверка перед
// вставкой, и строки конкурентов должны быть заблокированы до коммита.
func (r *Repository) FindConflicts(
	ctx context.Context,
	staffID string,
	paddedStart, paddedEnd time.Time,
	excludeBookingID *string,
) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"status": occupyingStatusStrings}).
		Where(squirrel.Expr(
			"(start_time - make_interval(mins => padding_before_minutes)) < ?", paddedEnd)).
		Where(squirrel.Expr(
			"(end_time + make_interval(mins => padding_after_minutes)) > ?", paddedStart)).
		OrderBy("start_time ASC")

	if excludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeBookingID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// HasConflict быстрая булева проверка конфликта
func (r *Repository) HasConflict(
	ctx context.Context,
	staffID string,
	paddedStart, paddedEnd time.Time,
	excludeBookingID *string,
) (bool, error) {
	conflicts, err := r.FindConflicts(ctx, staffID, paddedStart, paddedEnd, excludeBookingID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// GetOccupyingByLocationAndDate возвращает все занимающие время бронирования
// локации на календарный день. Используется резолвером доступности для
// подсчета конфликтов и загрузки мастеров одним запросом.
//
// Внутри транзакции добавляется FOR UPDATE для блокировки строк —
// два конкурентных запроса на пересекающийся слот не смогут оба
// увидеть "свободно" и оба закоммититься.
func (r *Repository) GetOccupyingByLocationAndDate(
	ctx context.Context,
	merchantID, locationID string,
	date time.Time,
) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"merchant_id": merchantID}).
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.Eq{"status": occupyingStatusStrings}).
		Where(squirrel.GtOrEq{"start_time": dayStart}).
		Where(squirrel.Lt{"start_time": dayEnd}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupyingByLocationAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupyingByLocationAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByCustomer получает историю бронирований клиента мерчанта
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomer(
	ctx context.Context,
	merchantID, customerID string,
	status *domain.BookingStatus,
) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"merchant_id": merchantID}).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByLocationWithFilter получает бронирования локации с гибкой фильтрацией:
// по мастеру, периоду, статусу и включению неактивных бронирований.
// Используется календарем мерчанта.
func (r *Repository) GetByLocationWithFilter(ctx context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"merchant_id": filter.MerchantID}).
		Where(squirrel.Eq{"location_id": filter.LocationID})

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}

	if filter.StartDate != nil {
		dayStart := truncateToDay(*filter.StartDate)
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": dayStart})
	}
	if filter.EndDate != nil {
		dayEnd := truncateToDay(*filter.EndDate).AddDate(0, 0, 1)
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": dayEnd})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": occupyingStatusStrings})
	}

	// Для календаря одного дня сортируем по времени начала (ASC),
	// для периода — сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLocationWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLocationWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины.
// Статус меняется на cancelled, строка не удаляется — история сохраняется.
func (r *Repository) Cancel(ctx context.Context, id string, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.MerchantID,
			&b.CustomerID,
			&b.LocationID,
			&b.StaffID,
			&b.StartTime,
			&b.EndTime,
			&b.DurationMinutes,
			&b.PaddingBeforeMinutes,
			&b.PaddingAfterMinutes,
			&b.Status,
			pq.Array(&b.ServiceIDs),
			pq.Array(&b.ServiceNames),
			&b.TotalPrice,
			&b.Notes,
			&b.OverrideReason,
			&b.CancellationReason,
			&b.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// statusStrings конвертирует статусы в строки для SQL условий
func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// truncateToDay обнуляет время, оставляя только дату
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
