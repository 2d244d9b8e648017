package domain

import (
	"time"

	"github.com/heya-pos/HEYA-BookingService/pkg/types"
)

// Staff represents a bookable staff member at a location
type Staff struct {
	ID         string
	MerchantID string
	LocationID string
	Name       string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DayHours рабочие часы одного дня недели.
// Invariant: Start строго раньше End.
type DayHours struct {
	Start types.TimeString
	End   types.TimeString
}

// WeeklySchedule недельное расписание мастера: запись на день недели
// либо отсутствует (выходной), либо задает рабочий интервал.
type WeeklySchedule map[time.Weekday]DayHours

// Covers возвращает true, если интервал [start, end) целиком лежит внутри
// рабочих часов указанного дня. Бронирование не разрезается через границу
// выходного или разрыв в расписании: либо помещается целиком, либо отказ.
func (s WeeklySchedule) Covers(day time.Weekday, start, end types.TimeString) bool {
	hours, ok := s[day]
	if !ok {
		return false
	}
	if start.IsBefore(hours.Start) {
		return false
	}
	if end.IsAfter(hours.End) {
		return false
	}
	return true
}

// HoursFor возвращает рабочие часы на день недели, если мастер в этот день работает
func (s WeeklySchedule) HoursFor(day time.Weekday) (DayHours, bool) {
	hours, ok := s[day]
	return hours, ok
}

// TimeOff разовое исключение из расписания (отпуск, приём у врача).
// Перекрывает недельное расписание: мастер не на смене в этом интервале.
type TimeOff struct {
	ID        string
	StaffID   string
	StartTime time.Time
	EndTime   time.Time
	Reason    *string
}

// Blocks returns true if the time off overlaps the window [start, end)
func (t *TimeOff) Blocks(start, end time.Time) bool {
	return Overlaps(t.StartTime, t.EndTime, start, end)
}
