package bookings

import (
	"context"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByCustomer(ctx context.Context, merchantID, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByLocationWithFilter(ctx context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
