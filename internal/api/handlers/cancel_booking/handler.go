package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/heya-pos/HEYA-BookingService/internal/api/handlers"
	"github.com/heya-pos/HEYA-BookingService/internal/api/middleware"
	cancelBooking "github.com/heya-pos/HEYA-BookingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgBookingNotFound    = "booking not found"
	msgCannotCancel       = "booking can no longer be cancelled"
	msgNoticeTooShort     = "it is too late to cancel this booking"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())
	bookingID := mux.Vars(r)["bookingId"]

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/%s/cancel - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		MerchantID: merchantID,
		BookingID:  bookingID,
		Reason:     req.Reason,
		IsOverride: req.IsOverride,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/%s/cancel - Not found: merchant=%s", bookingID, merchantID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, cancelBooking.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/%s/cancel - Cannot cancel: merchant=%s", bookingID, merchantID)
			handlers.RespondUnprocessable(w, msgCannotCancel)

		case errors.Is(err, cancelBooking.ErrNoticeTooShort):
			h.logger.Warn("PATCH /bookings/%s/cancel - Notice too short: merchant=%s", bookingID, merchantID)
			handlers.RespondBadRequest(w, msgNoticeTooShort)

		case errors.Is(err, cancelBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/%s/cancel - Invalid input: %v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/%s/cancel - Failed: merchant=%s, error=%v", bookingID, merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/%s/cancel - Cancelled: merchant=%s, alreadyCancelled=%t",
		bookingID, merchantID, result.AlreadyCancelled)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
