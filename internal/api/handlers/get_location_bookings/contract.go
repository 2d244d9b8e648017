package get_location_bookings

import (
	"context"

	"github.com/heya-pos/HEYA-BookingService/internal/service/bookings/models"
)

type BookingsService interface {
	GetLocationBookings(ctx context.Context, req *models.GetLocationBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
