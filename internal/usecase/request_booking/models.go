package request_booking

import (
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	MerchantID string
	CustomerID string
	LocationID string

	// ServiceIDs услуги бронирования в порядке выполнения;
	// длительность = сумма длительностей
	ServiceIDs []string

	StartTime time.Time

	// RequestedStaffID конкретный мастер. nil = "next available":
	// мастер выбирается резолвером и фиксируется до записи.
	RequestedStaffID *string

	Notes *string

	// IsOverride осознанное создание с нарушением правил: конфликт расписания
	// и lead time пропускаются, причина обязательна и сохраняется.
	IsOverride     bool
	OverrideReason *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}
