package resolve_availability

import (
	"context"
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	"github.com/heya-pos/HEYA-BookingService/internal/integrations/catalogservice"
)

// BookingRepository интерфейс индекса конфликтов
type BookingRepository interface {
	// GetOccupyingByLocationAndDate возвращает занимающие время бронирования
	// локации на календарный день (внутри транзакции — с блокировкой строк)
	GetOccupyingByLocationAndDate(ctx context.Context, merchantID, locationID string, date time.Time) ([]*domain.Booking, error)
}

// RosterRepository интерфейс провайдера ростера и расписаний
type RosterRepository interface {
	GetStaff(ctx context.Context, id string) (*domain.Staff, error)
	ListActiveByLocation(ctx context.Context, merchantID, locationID string) ([]*domain.Staff, error)
	GetWeeklySchedules(ctx context.Context, staffIDs []string) (map[string]domain.WeeklySchedule, error)
	ListTimeOff(ctx context.Context, staffIDs []string, from, to time.Time) (map[string][]domain.TimeOff, error)
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetByMerchant(ctx context.Context, merchantID string) (*domain.BookingPolicy, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetService(ctx context.Context, merchantID, serviceID string) (*catalogservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
