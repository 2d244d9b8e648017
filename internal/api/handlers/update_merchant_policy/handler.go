package update_merchant_policy

import (
	"errors"
	"net/http"

	"github.com/heya-pos/HEYA-BookingService/internal/api/handlers"
	"github.com/heya-pos/HEYA-BookingService/internal/api/middleware"
	policyService "github.com/heya-pos/HEYA-BookingService/internal/service/policy"
	"github.com/heya-pos/HEYA-BookingService/internal/service/policy/models"
)

const msgInvalidRequestBody = "invalid request body"

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())

	var req models.UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.MerchantID = merchantID

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, policyService.ErrValueOutOfRange),
			errors.Is(err, policyService.ErrInvalidInput):
			h.logger.Warn("PUT /policy - Invalid input: merchant=%s, error=%v", merchantID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /policy - Failed: merchant=%s, error=%v", merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /policy - Updated: merchant=%s", merchantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
