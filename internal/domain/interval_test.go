package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 16, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"containment", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"disjoint", at(10, 0), at(11, 0), at(12, 0), at(13, 0), false},
		{"touching endpoints do not overlap", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"touching endpoints reversed", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestNewAvailabilityWindow(t *testing.T) {
	w := NewAvailabilityWindow(at(10, 0), 90)
	assert.Equal(t, at(10, 0), w.Start)
	assert.Equal(t, at(11, 30), w.End)
}

func TestAvailabilityWindow_Padded(t *testing.T) {
	w := NewAvailabilityWindow(at(10, 0), 60)
	padded := w.Padded(15, 10)

	assert.Equal(t, at(9, 45), padded.Start)
	assert.Equal(t, at(11, 10), padded.End)

	// Исходное окно не меняется
	assert.Equal(t, at(10, 0), w.Start)
	assert.Equal(t, at(11, 0), w.End)
}

func TestAvailabilityWindow_CrossesMidnight(t *testing.T) {
	sameDay := NewAvailabilityWindow(at(10, 0), 60)
	assert.False(t, sameDay.CrossesMidnight())

	// Конец ровно в полночь следующего дня допустим
	untilMidnight := NewAvailabilityWindow(at(23, 0), 60)
	assert.False(t, untilMidnight.CrossesMidnight())

	pastMidnight := NewAvailabilityWindow(at(23, 30), 60)
	assert.True(t, pastMidnight.CrossesMidnight())
}

func TestAvailabilityWindow_OverlapsBooking(t *testing.T) {
	booking := &Booking{
		StartTime:            at(11, 0),
		EndTime:              at(12, 0),
		PaddingBeforeMinutes: 15,
		PaddingAfterMinutes:  15,
	}

	// Без паддинга окно 10:00-11:00 не пересекалось бы, но паддинг
	// бронирования расширяет его до 10:45
	w := NewAvailabilityWindow(at(10, 0), 60)
	assert.True(t, w.OverlapsBooking(booking))

	earlier := NewAvailabilityWindow(at(9, 0), 60)
	assert.False(t, earlier.OverlapsBooking(booking))

	// Окно, стыкующееся с паддингом точка-в-точку, не конфликтует
	touching := NewAvailabilityWindow(at(9, 45), 60)
	assert.False(t, touching.OverlapsBooking(booking))
}
