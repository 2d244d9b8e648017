package domain

import "time"

// BookingPolicy merchant-level temporal booking rules.
// Read-only for this service's core: mutated only through the policy API.
type BookingPolicy struct {
	MerchantID string

	// AdvanceBookingHours минимальный интервал от "сейчас" до начала нового
	// бронирования. Граница включительно: ровно через AdvanceBookingHours — можно.
	AdvanceBookingHours int

	// CancellationHours минимальное уведомление для отмены без override.
	// Граница включительно.
	CancellationHours int

	// BookingBufferMinutes буфер между бронированиями, если услуга
	// не задает собственный паддинг.
	BookingBufferMinutes int

	// UI-facing flags, consumed by the calendar clients; the booking
	// engine never creates unassigned rows itself.
	AllowUnassignedBookings bool
	ShowUnassignedColumn    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultBookingPolicy возвращает политику по умолчанию для мерчанта,
// у которого нет сохранённой конфигурации
func DefaultBookingPolicy(merchantID string) *BookingPolicy {
	return &BookingPolicy{
		MerchantID:           merchantID,
		AdvanceBookingHours:  DefaultAdvanceBookingHours,
		CancellationHours:    DefaultCancellationHours,
		BookingBufferMinutes: DefaultBookingBufferMinutes,
	}
}
