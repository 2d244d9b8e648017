package policyguard

import (
	"errors"
	"fmt"
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
)

var (
	// ErrLeadTimeTooShort возвращается, когда новое бронирование начинается
	// раньше, чем позволяет advance_booking_hours мерчанта
	ErrLeadTimeTooShort = errors.New("policyguard: lead time too short")

	// ErrNoticeTooShort возвращается, когда до начала бронирования осталось
	// меньше cancellation_hours и отмена выполняется без override
	ErrNoticeTooShort = errors.New("policyguard: cancellation notice too short")
)

// Чистые stateless-проверки темпоральной политики мерчанта.
// Время всегда передается явно — скрытого обращения к часам нет.

// ValidateCreation проверяет минимальный интервал от now до начала нового
// бронирования. Граница включительно: старт ровно через advance_booking_hours
// проходит, на минуту раньше — отказ.
func ValidateCreation(now, requestedStart time.Time, p *domain.BookingPolicy) error {
	earliest := now.Add(time.Duration(p.AdvanceBookingHours) * time.Hour)
	if requestedStart.Before(earliest) {
		return fmt.Errorf("%w: bookings require at least %d hours notice", ErrLeadTimeTooShort, p.AdvanceBookingHours)
	}
	return nil
}

// ValidateCancellation проверяет минимальное уведомление для отмены.
// Граница включительно, та же конвенция, что и у ValidateCreation.
// isOverride пропускает проверку — осознанная отмена мерчантом.
func ValidateCancellation(now, bookingStart time.Time, p *domain.BookingPolicy, isOverride bool) error {
	if isOverride {
		return nil
	}
	deadline := now.Add(time.Duration(p.CancellationHours) * time.Hour)
	if bookingStart.Before(deadline) {
		return fmt.Errorf("%w: cancellations require at least %d hours notice", ErrNoticeTooShort, p.CancellationHours)
	}
	return nil
}

// EffectivePadding возвращает паддинг до и после услуги.
// Паддинг услуги имеет приоритет; если услуга его не задает,
// с обеих сторон применяется merchant-level буфер.
func EffectivePadding(serviceBefore, serviceAfter *int, p *domain.BookingPolicy) (before, after int) {
	before = p.BookingBufferMinutes
	after = p.BookingBufferMinutes

	if serviceBefore != nil && *serviceBefore >= 0 {
		before = *serviceBefore
	}
	if serviceAfter != nil && *serviceAfter >= 0 {
		after = *serviceAfter
	}

	return before, after
}
