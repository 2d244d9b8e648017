package update_merchant_policy

import (
	"context"

	"github.com/heya-pos/HEYA-BookingService/internal/service/policy/models"
)

type PolicyService interface {
	Update(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
