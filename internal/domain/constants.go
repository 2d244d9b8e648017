package domain

// Default booking policy values (applied when a merchant has no stored policy)
const (
	DefaultAdvanceBookingHours  = 0  // 0 = бронировать можно прямо сейчас
	DefaultCancellationHours    = 24 // минимальное уведомление для отмены
	DefaultBookingBufferMinutes = 0  // буфер между бронированиями по умолчанию
)

// Business validation constants
const (
	MinAdvanceBookingHours  = 0
	MaxAdvanceBookingHours  = 8760 // 1 год
	MinCancellationHours    = 0
	MaxCancellationHours    = 8760
	MinBookingBufferMinutes = 0
	MaxBookingBufferMinutes = 180

	MaxNotesLength          = 500
	MaxOverrideReasonLength = 500
	MaxCancelReasonLength   = 500

	MaxServiceDurationMinutes = 720 // 12 часов, дольше одного рабочего дня услуг не бывает
)

// SlotGranularityMinutes шаг сетки слотов при сканировании дня
const SlotGranularityMinutes = 15

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	ClockFormat = "3:04 PM"    // человекочитаемое время для сообщений о конфликтах
)

// OccupyingStatuses статусы, при которых бронирование занимает время мастера.
// Используется индексом конфликтов: только эти статусы блокируют новые
// бронирования на пересекающийся интервал.
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses статусы, из которых бронирование больше не переходит
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
