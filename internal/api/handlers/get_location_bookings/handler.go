package get_location_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/heya-pos/HEYA-BookingService/internal/api/handlers"
	"github.com/heya-pos/HEYA-BookingService/internal/api/middleware"
	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	bookingsService "github.com/heya-pos/HEYA-BookingService/internal/service/bookings"
	"github.com/heya-pos/HEYA-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidStatus = "invalid booking status filter"
	msgInvalidDate   = "invalid date filter, expected YYYY-MM-DD"
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

// Handle GET /api/v1/locations/{locationId}/bookings
// Query: staffId, startDate, endDate, status, includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())
	locationID := mux.Vars(r)["locationId"]
	query := r.URL.Query()

	req := &models.GetLocationBookingsRequest{
		MerchantID:      merchantID,
		LocationID:      locationID,
		IncludeInactive: query.Get("includeInactive") == "true",
	}

	if staffID := query.Get("staffId"); staffID != "" {
		req.StaffID = &staffID
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &startDate
	}
	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &endDate
	}

	result, err := h.service.GetLocationBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrInvalidStatus):
			h.logger.Warn("GET /locations/%s/bookings - Invalid status filter: merchant=%s", locationID, merchantID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /locations/%s/bookings - Failed: merchant=%s, error=%v", locationID, merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
