package get_customer_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/heya-pos/HEYA-BookingService/internal/api/handlers"
	"github.com/heya-pos/HEYA-BookingService/internal/api/middleware"
	bookingsService "github.com/heya-pos/HEYA-BookingService/internal/service/bookings"
	"github.com/heya-pos/HEYA-BookingService/internal/service/bookings/models"
)

const msgInvalidStatus = "invalid booking status filter"

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

// Handle GET /api/v1/customers/{customerId}/bookings?status=confirmed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())
	customerID := mux.Vars(r)["customerId"]

	req := &models.GetCustomerBookingsRequest{
		MerchantID: merchantID,
		CustomerID: customerID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetCustomerBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrInvalidStatus):
			h.logger.Warn("GET /customers/%s/bookings - Invalid status filter: merchant=%s", customerID, merchantID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /customers/%s/bookings - Failed: merchant=%s, error=%v", customerID, merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
