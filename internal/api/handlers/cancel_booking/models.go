package cancel_booking

import (
	"time"

	cancelBooking "github.com/heya-pos/HEYA-BookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason     string `json:"reason"`
	IsOverride bool   `json:"isOverride,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID               string  `json:"id"`
	Status           string  `json:"status"`
	AlreadyCancelled bool    `json:"alreadyCancelled"`
	Reason           *string `json:"cancellationReason,omitempty"`
	CancelledAt      *string `json:"cancelledAt,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	out := &CancelBookingResponse{
		ID:               resp.Booking.ID,
		Status:           string(resp.Booking.Status),
		AlreadyCancelled: resp.AlreadyCancelled,
		Reason:           resp.Booking.CancellationReason,
	}
	if resp.Booking.CancelledAt != nil {
		cancelledAt := resp.Booking.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &cancelledAt
	}
	return out
}
