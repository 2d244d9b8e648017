package get_available_slots

import (
	"time"

	"github.com/heya-pos/HEYA-BookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	MerchantID string
	LocationID string
	ServiceIDs []string  // услуги бронирования; длина слота = сумма длительностей
	Date       time.Time // дата, на которую запрашиваются слоты (без времени)

	// StaffID сужает сетку до одного мастера. nil = слот доступен,
	// если свободен хотя бы один мастер локации.
	StaffID *string
}

// Response модель ответа с сеткой слотов
type Response struct {
	Date       time.Time
	LocationID string

	// Slots полная сетка дня: и доступные, и занятые с причиной
	Slots []Slot

	// AvailableSlots только времена доступных слотов, в порядке сетки
	AvailableSlots []types.TimeString
}

// Slot один слот сетки
type Slot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Available       bool

	// AvailableStaff количество свободных мастеров в этом слоте
	AvailableStaff int

	// Reason однострочная причина недоступности, например
	// "Busy until 3:00 PM". Заполняется только для запроса по
	// конкретному мастеру.
	Reason *string
}
