package update_booking_status

import (
	"context"

	"github.com/heya-pos/HEYA-BookingService/internal/service/bookings/models"
)

type BookingsService interface {
	UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
