package get_available_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("get_available_slots: location not found")

	// ErrStaffNotFound возвращается, когда запрошенный мастер не существует
	ErrStaffNotFound = errors.New("get_available_slots: staff not found")

	// ErrNoStaffConfigured возвращается, когда у локации нет активных мастеров
	ErrNoStaffConfigured = errors.New("get_available_slots: no staff configured at location")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
