package roster

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	"github.com/heya-pos/HEYA-BookingService/pkg/dbmetrics"
	"github.com/heya-pos/HEYA-BookingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов (см. pkg/dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий ростера: мастера, недельные расписания и
// разовые отсутствия. Для движка бронирований данные read-only —
// мутации выполняет внешний UI управления персоналом.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ростера
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetStaff получает мастера по ID
func (r *Repository) GetStaff(ctx context.Context, id string) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"merchant_id",
		"location_id",
		"name",
		"active",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	var staff domain.Staff
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.MerchantID,
		&staff.LocationID,
		&staff.Name,
		&staff.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %v", ErrScanRow, err)
	}

	staff.CreatedAt = createdAt.Time
	staff.UpdatedAt = updatedAt.Time

	return &staff, nil
}

// ListActiveByLocation возвращает всех активных мастеров локации,
// отсортированных по ID для детерминированного порядка обхода
func (r *Repository) ListActiveByLocation(ctx context.Context, merchantID, locationID string) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"merchant_id",
		"location_id",
		"name",
		"active",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"merchant_id": merchantID}).
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.Eq{"active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByLocation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByLocation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staffList := make([]*domain.Staff, 0)
	for rows.Next() {
		var staff domain.Staff
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&staff.ID,
			&staff.MerchantID,
			&staff.LocationID,
			&staff.Name,
			&staff.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveByLocation - scan row: %v", ErrScanRow, err)
		}

		staff.CreatedAt = createdAt.Time
		staff.UpdatedAt = updatedAt.Time
		staffList = append(staffList, &staff)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveByLocation - rows error: %v", ErrScanRow, err)
	}

	return staffList, nil
}

// GetWeeklySchedule получает недельное расписание мастера.
// Отсутствие записей — валидное состояние (мастер нигде не на смене),
// существование самого мастера проверяется отдельно через GetStaff.
func (r *Repository) GetWeeklySchedule(ctx context.Context, staffID string) (domain.WeeklySchedule, error) {
	schedules, err := r.GetWeeklySchedules(ctx, []string{staffID})
	if err != nil {
		return nil, err
	}

	schedule, ok := schedules[staffID]
	if !ok {
		return domain.WeeklySchedule{}, nil
	}
	return schedule, nil
}

// GetWeeklySchedules батчевая загрузка расписаний нескольких мастеров.
// Используется резолвером при обработке "next available" запросов,
// чтобы не ходить в БД по одному мастеру.
func (r *Repository) GetWeeklySchedules(ctx context.Context, staffIDs []string) (map[string]domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if len(staffIDs) == 0 {
		return map[string]domain.WeeklySchedule{}, nil
	}

	query, args, err := psqlbuilder.Select(
		"staff_id",
		"day_of_week",
		"start_time",
		"end_time",
	).
		From("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		OrderBy("staff_id ASC, day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklySchedules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklySchedules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[string]domain.WeeklySchedule, len(staffIDs))

	for rows.Next() {
		var staffID string
		var dayOfWeek int
		var hours domain.DayHours

		if err := rows.Scan(&staffID, &dayOfWeek, &hours.Start, &hours.End); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklySchedules - scan row: %v", ErrScanRow, err)
		}

		if dayOfWeek < 0 || dayOfWeek > 6 {
			return nil, fmt.Errorf("%w: staff=%s day_of_week=%d", ErrInvalidSchedule, staffID, dayOfWeek)
		}
		if !hours.Start.IsBefore(hours.End) {
			return nil, fmt.Errorf("%w: staff=%s %s-%s", ErrInvalidSchedule, staffID, hours.Start, hours.End)
		}

		if result[staffID] == nil {
			result[staffID] = domain.WeeklySchedule{}
		}
		result[staffID][time.Weekday(dayOfWeek)] = hours
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklySchedules - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// ListTimeOff возвращает разовые отсутствия мастеров, пересекающие
// интервал [from, to). Ключ результата — staff_id.
func (r *Repository) ListTimeOff(ctx context.Context, staffIDs []string, from, to time.Time) (map[string][]domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if len(staffIDs) == 0 {
		return map[string][]domain.TimeOff{}, nil
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"start_time",
		"end_time",
		"reason",
	).
		From("staff_time_off").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeOff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeOff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[string][]domain.TimeOff)

	for rows.Next() {
		var t domain.TimeOff
		if err := rows.Scan(&t.ID, &t.StaffID, &t.StartTime, &t.EndTime, &t.Reason); err != nil {
			return nil, fmt.Errorf("%w: ListTimeOff - scan row: %v", ErrScanRow, err)
		}
		result[t.StaffID] = append(result[t.StaffID], t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTimeOff - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
