package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// Booking represents a committed staff assignment for a time window
type Booking struct {
	ID         string
	MerchantID string
	CustomerID string
	LocationID string

	// StaffID всегда конкретный мастер. Плейсхолдеры типа "next available"
	// разрешаются до записи и в хранилище не попадают.
	StaffID string

	StartTime       time.Time
	EndTime         time.Time // всегда StartTime + DurationMinutes
	DurationMinutes int

	// Padding captured at creation time; used only for conflict checks,
	// never included in StartTime/EndTime.
	PaddingBeforeMinutes int
	PaddingAfterMinutes  int

	Status BookingStatus

	// Denormalized service data for history
	ServiceIDs   []string
	ServiceNames []string
	TotalPrice   float64

	Notes *string

	// Override audit trail: merchants may knowingly double-book,
	// the reason is mandatory and stored on the row.
	OverrideReason *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Occupies returns true if the booking consumes the staff member's time
// for conflict purposes
func (b *Booking) Occupies() bool {
	return b.Status == StatusPending ||
		b.Status == StatusConfirmed ||
		b.Status == StatusInProgress
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeUpdated returns true if the booking can still be modified
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsTerminal returns true if the booking reached a final status
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted ||
		b.Status == StatusCancelled ||
		b.Status == StatusNoShow
}

// PaddedStart returns the start of the interval the booking blocks,
// including its captured pre-service padding
func (b *Booking) PaddedStart() time.Time {
	return b.StartTime.Add(-time.Duration(b.PaddingBeforeMinutes) * time.Minute)
}

// PaddedEnd returns the end of the interval the booking blocks,
// including its captured post-service padding
func (b *Booking) PaddedEnd() time.Time {
	return b.EndTime.Add(time.Duration(b.PaddingAfterMinutes) * time.Minute)
}

// ValidStatus returns true if s is a known booking status
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CanTransition проверяет допустимость перехода статуса жизненного цикла.
// Отмена идет отдельным путём (Cancel), здесь только операционные переходы.
func CanTransition(from, to BookingStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed
	case StatusConfirmed:
		return to == StatusInProgress || to == StatusNoShow
	case StatusInProgress:
		return to == StatusCompleted
	default:
		return false
	}
}

// LocationBookingsFilter фильтр для выборки бронирований локации
type LocationBookingsFilter struct {
	MerchantID      string
	LocationID      string
	StaffID         *string        // фильтр по мастеру (опционально)
	StartDate       *time.Time     // начало периода (включительно)
	EndDate         *time.Time     // конец периода (включительно)
	Status          *BookingStatus // фильтр по статусу (опционально)
	IncludeInactive bool           // включать ли отменённые/завершённые/no-show
}
