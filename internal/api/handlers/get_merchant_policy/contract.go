package get_merchant_policy

import (
	"context"

	"github.com/heya-pos/HEYA-BookingService/internal/service/policy/models"
)

type PolicyService interface {
	Get(ctx context.Context, merchantID string) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
