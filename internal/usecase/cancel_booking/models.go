package cancel_booking

import "github.com/heya-pos/HEYA-BookingService/internal/domain"

// Request модель запроса на отмену бронирования
type Request struct {
	MerchantID string
	BookingID  string
	Reason     string

	// IsOverride осознанная отмена мерчантом: проверка cancellation_hours
	// пропускается
	IsOverride bool
}

// Response модель ответа.
// AlreadyCancelled = true, когда бронирование было отменено ранее
// и запрос не изменил состояние.
type Response struct {
	Booking          *domain.Booking
	AlreadyCancelled bool
}
