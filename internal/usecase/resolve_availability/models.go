package resolve_availability

import (
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
)

// Request модель запроса на разрешение доступности
type Request struct {
	MerchantID string
	LocationID string
	ServiceIDs []string  // услуги бронирования; длительность окна = сумма длительностей
	StartTime  time.Time // запрошенное время начала

	// RequestedStaffID конкретный мастер. nil = "next available":
	// выбор делегируется детерминированному порядку резолвера.
	RequestedStaffID *string
}

// UnavailableReason причина недоступности мастера
type UnavailableReason string

const (
	// ReasonStaffNotFound мастер не существует или не бронируем — категориально
	// недоступен, это не конфликт расписания
	ReasonStaffNotFound UnavailableReason = "staff_not_found"

	// ReasonNotRostered мастер существует, но не на смене в запрошенное окно
	// (выходной, вне рабочих часов, разовое отсутствие, окно через полночь)
	ReasonNotRostered UnavailableReason = "not_rostered"

	// ReasonConflict окно пересекается с существующим занимающим бронированием
	ReasonConflict UnavailableReason = "conflict"
)

// ConflictWindow интервал конфликтующего бронирования.
// Данные клиента намеренно не включаются — наружу уходит только окно.
type ConflictWindow struct {
	BookingID string
	Start     time.Time
	End       time.Time
}

// StaffCandidate свободный мастер
type StaffCandidate struct {
	StaffID string
	Name    string

	// BookingsThatDay количество занимающих бронирований мастера в этот день;
	// основа балансировки нагрузки при выборе "next available"
	BookingsThatDay int
}

// UnavailableStaff занятый или недоступный мастер с причиной
type UnavailableStaff struct {
	StaffID string
	Name    string
	Reason  UnavailableReason

	// Message готовое однострочное сообщение для UI,
	// например "Staff member has another booking until 3:00 PM"
	Message string

	// WorkingHours фактические рабочие часы мастера в этот день,
	// если смена есть (для подсказки альтернатив при ReasonNotRostered)
	WorkingHours *domain.DayHours

	// Conflict окно конфликтующего бронирования при ReasonConflict
	Conflict *ConflictWindow
}

// Report результат разрешения доступности
type Report struct {
	Window domain.AvailabilityWindow

	// Available свободные мастера в детерминированном порядке:
	// сначала наименее загруженные в этот день, при равенстве — по ID.
	// Порядок воспроизводим на одинаковых входных данных.
	Available []StaffCandidate

	Unavailable []UnavailableStaff
}

// NextAvailable возвращает конкретного мастера для "next available" запроса
// или явное отсутствие. Никогда не возвращает строку-плейсхолдер:
// вызывающий получает либо настоящий ID, либо ok=false.
func (r *Report) NextAvailable() (staffID string, ok bool) {
	if len(r.Available) == 0 {
		return "", false
	}
	return r.Available[0].StaffID, true
}

// FindUnavailable возвращает запись о недоступности конкретного мастера
func (r *Report) FindUnavailable(staffID string) (*UnavailableStaff, bool) {
	for i := range r.Unavailable {
		if r.Unavailable[i].StaffID == staffID {
			return &r.Unavailable[i], true
		}
	}
	return nil, false
}

// IsAvailable возвращает true, если конкретный мастер свободен
func (r *Report) IsAvailable(staffID string) bool {
	for _, c := range r.Available {
		if c.StaffID == staffID {
			return true
		}
	}
	return false
}
