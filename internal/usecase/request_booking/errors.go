package request_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("request_booking: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("request_booking: service not found")

	// ErrLocationNotFound возвращается, когда локация не найдена или неактивна
	ErrLocationNotFound = errors.New("request_booking: location not found")

	// ErrStaffNotFound возвращается, когда запрошенный мастер не существует
	// или не бронируем на этой локации. Не обходится через override.
	ErrStaffNotFound = errors.New("request_booking: staff not found")

	// ErrStaffNotRostered возвращается, когда запрошенный мастер не на смене
	// в запрошенное окно
	ErrStaffNotRostered = errors.New("request_booking: staff not rostered")

	// ErrBookingConflict возвращается, когда окно пересекается с существующим
	// занимающим бронированием мастера
	ErrBookingConflict = errors.New("request_booking: booking conflict")

	// ErrNoAvailability возвращается для "next available" запроса, когда все
	// мастера на смене заняты или не на смене
	ErrNoAvailability = errors.New("request_booking: no staff available")

	// ErrNoStaffConfigured возвращается, когда у локации вообще нет активных
	// мастеров
	ErrNoStaffConfigured = errors.New("request_booking: no staff configured at location")

	// ErrLeadTimeTooShort возвращается, когда старт раньше, чем позволяет
	// advance_booking_hours мерчанта
	ErrLeadTimeTooShort = errors.New("request_booking: lead time too short")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("request_booking: internal error")
)
