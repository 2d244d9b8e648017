package cancel_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrCannotCancel возвращается для завершённых бронирований и no-show.
	// Уже отменённое бронирование сюда не попадает: повторная отмена
	// идемпотентна и завершается успехом.
	ErrCannotCancel = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrNoticeTooShort возвращается, когда до начала осталось меньше
	// cancellation_hours и отмена без override
	ErrNoticeTooShort = errors.New("cancel_booking: cancellation notice too short")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
