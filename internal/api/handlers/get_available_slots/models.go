package get_available_slots

import (
	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	getAvailableSlots "github.com/heya-pos/HEYA-BookingService/internal/usecase/get_available_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date           string   `json:"date"`
	LocationID     string   `json:"locationId"`
	Slots          []Slot   `json:"slots"`
	AvailableSlots []string `json:"availableSlots"`
}

// Slot один слот сетки
type Slot struct {
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Available       bool    `json:"available"`
	AvailableStaff  int     `json:"availableStaff"`
	Reason          *string `json:"reason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		LocationID:     resp.LocationID,
		Slots:          make([]Slot, 0, len(resp.Slots)),
		AvailableSlots: make([]string, 0, len(resp.AvailableSlots)),
	}

	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, Slot{
			StartTime:       s.StartTime.String(),
			EndTime:         s.EndTime.String(),
			DurationMinutes: s.DurationMinutes,
			Available:       s.Available,
			AvailableStaff:  s.AvailableStaff,
			Reason:          s.Reason,
		})
	}

	for _, t := range resp.AvailableSlots {
		out.AvailableSlots = append(out.AvailableSlots, t.String())
	}

	return out
}
