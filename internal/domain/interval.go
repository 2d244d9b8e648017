package domain

import "time"

// Overlaps проверяет пересечение двух полуоткрытых интервалов [aStart, aEnd)
// и [bStart, bEnd). Интервалы, граничащие точка-в-точку, НЕ пересекаются:
// бронирование, заканчивающееся в 11:00, не конфликтует с начинающимся в 11:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// AvailabilityWindow запрошенный интервал занятости кандидата на бронирование.
// Конструируется на время одного разрешения доступности и не сохраняется.
type AvailabilityWindow struct {
	Start time.Time
	End   time.Time // всегда производное: Start + суммарная длительность услуг
}

// NewAvailabilityWindow строит окно по началу и суммарной длительности услуг
func NewAvailabilityWindow(start time.Time, durationMinutes int) AvailabilityWindow {
	return AvailabilityWindow{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

// Padded возвращает окно, расширенное паддингом для проверки конфликтов.
// Паддинг влияет только на то, какие чужие бронирования считаются
// конфликтующими; сохраняемые start/end бронирования он не меняет.
func (w AvailabilityWindow) Padded(beforeMinutes, afterMinutes int) AvailabilityWindow {
	return AvailabilityWindow{
		Start: w.Start.Add(-time.Duration(beforeMinutes) * time.Minute),
		End:   w.End.Add(time.Duration(afterMinutes) * time.Minute),
	}
}

// CrossesMidnight возвращает true, если окно заканчивается в другой
// календарный день. Такие бронирования отклоняются.
func (w AvailabilityWindow) CrossesMidnight() bool {
	y1, m1, d1 := w.Start.Date()
	y2, m2, d2 := w.End.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return false
	}
	// Окно, заканчивающееся ровно в полночь следующего дня, не считается
	// переходом через полночь (полуоткрытый интервал).
	next := time.Date(y1, m1, d1, 0, 0, 0, 0, w.Start.Location()).AddDate(0, 0, 1)
	return !w.End.Equal(next)
}

// OverlapsBooking проверяет конфликт окна с бронированием с учетом
// паддинга обеих сторон
func (w AvailabilityWindow) OverlapsBooking(b *Booking) bool {
	return Overlaps(w.Start, w.End, b.PaddedStart(), b.PaddedEnd())
}
