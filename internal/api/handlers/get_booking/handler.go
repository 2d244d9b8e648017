package get_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/heya-pos/HEYA-BookingService/internal/api/handlers"
	"github.com/heya-pos/HEYA-BookingService/internal/api/middleware"
	bookingsService "github.com/heya-pos/HEYA-BookingService/internal/service/bookings"
)

const msgBookingNotFound = "booking not found"

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())
	bookingID := mux.Vars(r)["bookingId"]

	result, err := h.service.GetByID(r.Context(), merchantID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/%s - Not found: merchant=%s", bookingID, merchantID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		default:
			h.logger.Error("GET /bookings/%s - Failed: merchant=%s, error=%v", bookingID, merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
