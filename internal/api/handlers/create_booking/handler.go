package create_booking

import (
	"errors"
	"net/http"

	"github.com/heya-pos/HEYA-BookingService/internal/api/handlers"
	"github.com/heya-pos/HEYA-BookingService/internal/api/middleware"
	requestBooking "github.com/heya-pos/HEYA-BookingService/internal/usecase/request_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateTime    = "invalid booking date or start time, expected YYYY-MM-DD and HH:MM"
	msgBookingConflict    = "the selected time conflicts with an existing booking"
	msgNoAvailability     = "no staff members are available at the selected time"
	msgNoStaffConfigured  = "no staff members are configured for this location"
	msgStaffNotFound      = "staff member not found"
	msgStaffNotRostered   = "staff member is not scheduled to work at the selected time"
	msgServiceNotFound    = "service not found"
	msgLocationNotFound   = "location not found"
	msgLeadTimeTooShort   = "the selected time is too soon to book"
)

type Handler struct {
	useCase RequestBookingUseCase
	logger  Logger
}

func NewHandler(useCase RequestBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(merchantID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, requestBooking.ErrBookingConflict):
			h.logger.Warn("POST /bookings - Conflict: merchant=%s, location=%s", merchantID, req.LocationID)
			handlers.RespondConflict(w, msgBookingConflict)

		case errors.Is(err, requestBooking.ErrNoAvailability):
			h.logger.Warn("POST /bookings - No availability: merchant=%s, location=%s", merchantID, req.LocationID)
			handlers.RespondConflict(w, msgNoAvailability)

		case errors.Is(err, requestBooking.ErrNoStaffConfigured):
			h.logger.Warn("POST /bookings - No staff configured: merchant=%s, location=%s", merchantID, req.LocationID)
			handlers.RespondUnprocessable(w, msgNoStaffConfigured)

		case errors.Is(err, requestBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings - Staff not found: merchant=%s, staff=%v", merchantID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, requestBooking.ErrStaffNotRostered):
			h.logger.Warn("POST /bookings - Staff not rostered: merchant=%s, staff=%v", merchantID, req.StaffID)
			handlers.RespondConflict(w, msgStaffNotRostered)

		case errors.Is(err, requestBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: merchant=%s", merchantID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, requestBooking.ErrLocationNotFound):
			h.logger.Warn("POST /bookings - Location not found: merchant=%s, location=%s", merchantID, req.LocationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, requestBooking.ErrLeadTimeTooShort):
			h.logger.Warn("POST /bookings - Lead time too short: merchant=%s", merchantID)
			handlers.RespondBadRequest(w, msgLeadTimeTooShort)

		case errors.Is(err, requestBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: merchant=%s, error=%v", merchantID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: merchant=%s, error=%v", merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%s, merchant=%s, staff=%s",
		result.Booking.ID, merchantID, result.Booking.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
