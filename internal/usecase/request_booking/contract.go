package request_booking

import (
	"context"
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	"github.com/heya-pos/HEYA-BookingService/internal/integrations/catalogservice"
	"github.com/heya-pos/HEYA-BookingService/internal/usecase/resolve_availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)

	// FindConflicts финальная проверка перед вставкой; внутри транзакции
	// блокирует конфликтующие строки до коммита
	FindConflicts(ctx context.Context, staffID string, paddedStart, paddedEnd time.Time, excludeBookingID *string) ([]*domain.Booking, error)
}

// AvailabilityResolver интерфейс резолвера доступности персонала
type AvailabilityResolver interface {
	Execute(ctx context.Context, req *resolve_availability.Request) (*resolve_availability.Report, error)
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetByMerchant(ctx context.Context, merchantID string) (*domain.BookingPolicy, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetService(ctx context.Context, merchantID, serviceID string) (*catalogservice.Service, error)
	GetLocation(ctx context.Context, merchantID, locationID string) (*catalogservice.Location, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	// DoSerializable выполняет функцию в сериализуемой транзакции
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
