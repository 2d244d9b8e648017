package check_staff_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/heya-pos/HEYA-BookingService/internal/api/handlers"
	"github.com/heya-pos/HEYA-BookingService/internal/api/middleware"
	resolveAvailability "github.com/heya-pos/HEYA-BookingService/internal/usecase/resolve_availability"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateTime    = "invalid booking date or start time, expected YYYY-MM-DD and HH:MM"
	msgServiceNotFound    = "service not found"
	msgNoStaffConfigured  = "no staff members are configured for this location"
)

type Handler struct {
	useCase ResolveAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ResolveAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/locations/{locationId}/availability/check
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())
	locationID := mux.Vars(r)["locationId"]

	var req CheckAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /locations/%s/availability/check - Invalid request body: %v", locationID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(merchantID, locationID)
	if err != nil {
		h.logger.Warn("POST /locations/%s/availability/check - Failed to parse request: %v", locationID, err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	report, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, resolveAvailability.ErrServiceNotFound):
			h.logger.Warn("POST /locations/%s/availability/check - Service not found: merchant=%s", locationID, merchantID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, resolveAvailability.ErrNoStaffConfigured):
			h.logger.Warn("POST /locations/%s/availability/check - No staff configured: merchant=%s", locationID, merchantID)
			handlers.RespondUnprocessable(w, msgNoStaffConfigured)

		case errors.Is(err, resolveAvailability.ErrInvalidInput):
			h.logger.Warn("POST /locations/%s/availability/check - Invalid input: %v", locationID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /locations/%s/availability/check - Failed: merchant=%s, error=%v", locationID, merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromReport(report))
}
