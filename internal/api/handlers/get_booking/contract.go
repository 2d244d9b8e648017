package get_booking

import (
	"context"

	"github.com/heya-pos/HEYA-BookingService/internal/service/bookings/models"
)

type BookingsService interface {
	GetByID(ctx context.Context, merchantID, id string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
