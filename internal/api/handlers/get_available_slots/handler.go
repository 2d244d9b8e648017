package get_available_slots

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/heya-pos/HEYA-BookingService/internal/api/handlers"
	"github.com/heya-pos/HEYA-BookingService/internal/api/middleware"
	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	getAvailableSlots "github.com/heya-pos/HEYA-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidDate       = "invalid date, expected YYYY-MM-DD"
	msgMissingServices   = "at least one serviceId is required"
	msgLocationNotFound  = "location not found"
	msgServiceNotFound   = "service not found"
	msgStaffNotFound     = "staff member not found"
	msgNoStaffConfigured = "no staff members are configured for this location"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/available-slots
// Query: date=YYYY-MM-DD, serviceIds=a,b,c, staffId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())
	locationID := mux.Vars(r)["locationId"]
	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /locations/%s/available-slots - Invalid date: %v", locationID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	serviceIDs := splitIDs(query.Get("serviceIds"))
	if len(serviceIDs) == 0 {
		handlers.RespondBadRequest(w, msgMissingServices)
		return
	}

	req := &getAvailableSlots.Request{
		MerchantID: merchantID,
		LocationID: locationID,
		ServiceIDs: serviceIDs,
		Date:       date,
	}
	if staffID := query.Get("staffId"); staffID != "" {
		req.StaffID = &staffID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrLocationNotFound):
			h.logger.Warn("GET /locations/%s/available-slots - Location not found: merchant=%s", locationID, merchantID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /locations/%s/available-slots - Service not found: merchant=%s", locationID, merchantID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /locations/%s/available-slots - Staff not found: merchant=%s", locationID, merchantID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrNoStaffConfigured):
			h.logger.Warn("GET /locations/%s/available-slots - No staff configured: merchant=%s", locationID, merchantID)
			handlers.RespondUnprocessable(w, msgNoStaffConfigured)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /locations/%s/available-slots - Invalid input: %v", locationID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /locations/%s/available-slots - Failed: merchant=%s, error=%v", locationID, merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// splitIDs разбирает список ID через запятую, отбрасывая пустые элементы
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
