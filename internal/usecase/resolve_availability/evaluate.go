package resolve_availability

import (
	"fmt"
	"sort"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	"github.com/heya-pos/HEYA-BookingService/pkg/types"
)

// staffContext всё, что нужно для оценки одного мастера:
// его данные, расписание, отсутствия и бронирования на этот день
type staffContext struct {
	staff       *domain.Staff
	schedule    domain.WeeklySchedule
	timeOff     []domain.TimeOff
	dayBookings []*domain.Booking
}

// evaluateStaff решает, свободен ли мастер в окне win.
// Возвращает либо кандидата, либо запись о недоступности с причиной.
// padBefore/padAfter расширяют окно только для проверки конфликтов.
func evaluateStaff(sc staffContext, win domain.AvailabilityWindow, padBefore, padAfter int) (*StaffCandidate, *UnavailableStaff) {
	hours, hasShift := sc.schedule.HoursFor(win.Start.Weekday())

	if !isRostered(sc.schedule, win) {
		entry := &UnavailableStaff{
			StaffID: sc.staff.ID,
			Name:    sc.staff.Name,
			Reason:  ReasonNotRostered,
			Message: notRosteredMessage(sc.staff.Name, hours, hasShift),
		}
		if hasShift {
			entry.WorkingHours = &hours
		}
		return nil, entry
	}

	// Разовое отсутствие перекрывает недельное расписание
	for _, off := range sc.timeOff {
		if off.Blocks(win.Start, win.End) {
			return nil, &UnavailableStaff{
				StaffID: sc.staff.ID,
				Name:    sc.staff.Name,
				Reason:  ReasonNotRostered,
				Message: fmt.Sprintf("%s is away until %s", sc.staff.Name, off.EndTime.Format(domain.ClockFormat)),
			}
		}
	}

	padded := win.Padded(padBefore, padAfter)
	for _, b := range sc.dayBookings {
		if padded.OverlapsBooking(b) {
			return nil, &UnavailableStaff{
				StaffID: sc.staff.ID,
				Name:    sc.staff.Name,
				Reason:  ReasonConflict,
				Message: fmt.Sprintf("Staff member has another booking until %s", b.EndTime.Format(domain.ClockFormat)),
				Conflict: &ConflictWindow{
					BookingID: b.ID,
					Start:     b.StartTime,
					End:       b.EndTime,
				},
			}
		}
	}

	return &StaffCandidate{
		StaffID:         sc.staff.ID,
		Name:            sc.staff.Name,
		BookingsThatDay: len(sc.dayBookings),
	}, nil
}

// isRostered проверяет, что окно целиком лежит внутри смены мастера.
// Окно через полночь никогда не покрывается: расписание берется по дню
// недели начала, и бронирование не разрезается через границу дня.
func isRostered(schedule domain.WeeklySchedule, win domain.AvailabilityWindow) bool {
	startTS := types.NewTimeString(win.Start)

	durationMinutes := int(win.End.Sub(win.Start).Minutes())
	endTS, err := startTS.AddMinutes(durationMinutes)
	if err != nil {
		// Окно выходит за границы суток
		return false
	}

	return schedule.Covers(win.Start.Weekday(), startTS, endTS)
}

// notRosteredMessage собирает однострочное сообщение для UI
func notRosteredMessage(name string, hours domain.DayHours, hasShift bool) string {
	if hasShift {
		return fmt.Sprintf("%s works %s to %s on this day", name, hours.Start, hours.End)
	}
	return fmt.Sprintf("%s is not scheduled to work on this day", name)
}

// sortCandidates сортирует свободных мастеров детерминированно:
// (1) меньше бронирований в этот день — выше (балансировка нагрузки),
// (2) при равенстве — лексикографически по ID.
// Порядок воспроизводим, тесты могут на него полагаться.
func sortCandidates(candidates []StaffCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].BookingsThatDay != candidates[j].BookingsThatDay {
			return candidates[i].BookingsThatDay < candidates[j].BookingsThatDay
		}
		return candidates[i].StaffID < candidates[j].StaffID
	})
}

// groupBookingsByStaff раскладывает дневные бронирования по мастерам
func groupBookingsByStaff(bookings []*domain.Booking) map[string][]*domain.Booking {
	byStaff := make(map[string][]*domain.Booking)
	for _, b := range bookings {
		byStaff[b.StaffID] = append(byStaff[b.StaffID], b)
	}
	return byStaff
}
