package policy

import (
	"context"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
)

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetByMerchant(ctx context.Context, merchantID string) (*domain.BookingPolicy, error)
	Upsert(ctx context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
