package resolve_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	// (пустой список услуг, нулевое время начала)
	ErrInvalidInput = errors.New("resolve_availability: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("resolve_availability: service not found")

	// ErrNoStaffConfigured возвращается, когда у локации вообще нет активных
	// мастеров. Отличается от "все заняты": там пустой Available в отчёте,
	// здесь мерчанту нужно сначала настроить персонал.
	ErrNoStaffConfigured = errors.New("resolve_availability: no staff configured at location")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("resolve_availability: internal error")
)
