package policy

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrValueOutOfRange возвращается, когда значение политики вне
	// допустимого диапазона
	ErrValueOutOfRange = errors.New("policy value out of range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
