package get_available_slots

import (
	"fmt"
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	"github.com/heya-pos/HEYA-BookingService/internal/integrations/catalogservice"
	"github.com/heya-pos/HEYA-BookingService/pkg/types"
)

// staffDay данные одного мастера на запрошенную дату
type staffDay struct {
	staff       *domain.Staff
	schedule    domain.WeeklySchedule
	timeOff     []domain.TimeOff
	dayBookings []*domain.Booking
}

// generateSlotTimes генерирует стартовые времена сетки от открытия локации
// с шагом granularity. Слот входит в сетку, только если услуга целиком
// помещается до закрытия.
func generateSlotTimes(open, close types.TimeString, durationMinutes, granularity int) ([]types.TimeString, error) {
	var slots []types.TimeString

	current := open
	for {
		end, err := current.AddMinutes(durationMinutes)
		if err != nil {
			// Услуга не помещается до конца суток
			break
		}
		if end.IsAfter(close) {
			break
		}

		slots = append(slots, current)

		next, err := current.AddMinutes(granularity)
		if err != nil {
			break
		}
		current = next
	}

	if slots == nil {
		slots = []types.TimeString{}
	}
	return slots, nil
}

// staffFreeForWindow решает, свободен ли мастер в окне win.
// Возвращает готовую причину занятости для сетки по конкретному мастеру.
func staffFreeForWindow(sd staffDay, win domain.AvailabilityWindow, padBefore, padAfter int) (bool, string) {
	startTS := types.NewTimeString(win.Start)
	endTS, err := startTS.AddMinutes(int(win.End.Sub(win.Start).Minutes()))
	if err != nil {
		return false, "Not scheduled at this time"
	}

	if !sd.schedule.Covers(win.Start.Weekday(), startTS, endTS) {
		return false, "Not scheduled at this time"
	}

	for _, off := range sd.timeOff {
		if off.Blocks(win.Start, win.End) {
			return false, fmt.Sprintf("Away until %s", off.EndTime.Format(domain.ClockFormat))
		}
	}

	padded := win.Padded(padBefore, padAfter)
	for _, b := range sd.dayBookings {
		if padded.OverlapsBooking(b) {
			return false, fmt.Sprintf("Busy until %s", b.EndTime.Format(domain.ClockFormat))
		}
	}

	return true, ""
}

// locationDaySchedule возвращает часы работы локации на день недели
func locationDaySchedule(loc *catalogservice.Location, day time.Weekday) catalogservice.DaySchedule {
	switch day {
	case time.Monday:
		return loc.WorkingHours.Monday
	case time.Tuesday:
		return loc.WorkingHours.Tuesday
	case time.Wednesday:
		return loc.WorkingHours.Wednesday
	case time.Thursday:
		return loc.WorkingHours.Thursday
	case time.Friday:
		return loc.WorkingHours.Friday
	case time.Saturday:
		return loc.WorkingHours.Saturday
	default:
		return loc.WorkingHours.Sunday
	}
}

// groupBookingsByStaff раскладывает дневные бронирования по мастерам
func groupBookingsByStaff(bookings []*domain.Booking) map[string][]*domain.Booking {
	byStaff := make(map[string][]*domain.Booking)
	for _, b := range bookings {
		byStaff[b.StaffID] = append(byStaff[b.StaffID], b)
	}
	return byStaff
}
