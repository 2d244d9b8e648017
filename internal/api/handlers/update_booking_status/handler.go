package update_booking_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/heya-pos/HEYA-BookingService/internal/api/handlers"
	"github.com/heya-pos/HEYA-BookingService/internal/api/middleware"
	bookingsService "github.com/heya-pos/HEYA-BookingService/internal/service/bookings"
	"github.com/heya-pos/HEYA-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgBookingNotFound    = "booking not found"
	msgInvalidStatus      = "invalid booking status"
	msgInvalidTransition  = "status transition not allowed"
)

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

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())
	bookingID := mux.Vars(r)["bookingId"]

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/%s/status - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.MerchantID = merchantID
	req.BookingID = bookingID

	result, err := h.service.UpdateStatus(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/%s/status - Not found: merchant=%s", bookingID, merchantID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrInvalidStatus):
			h.logger.Warn("PATCH /bookings/%s/status - Invalid status: %s", bookingID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookingsService.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/%s/status - Invalid transition: %v", bookingID, err)
			handlers.RespondUnprocessable(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /bookings/%s/status - Failed: merchant=%s, error=%v", bookingID, merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/%s/status - Updated: merchant=%s, status=%s", bookingID, merchantID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
