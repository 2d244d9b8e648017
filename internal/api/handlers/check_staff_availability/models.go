package check_staff_availability

import (
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	resolveAvailability "github.com/heya-pos/HEYA-BookingService/internal/usecase/resolve_availability"
	"github.com/heya-pos/HEYA-BookingService/pkg/types"
)

// CheckAvailabilityRequest HTTP request model
type CheckAvailabilityRequest struct {
	ServiceIDs  []string `json:"serviceIds"`
	BookingDate string   `json:"bookingDate"` // "2025-10-15"
	StartTime   string   `json:"startTime"`   // "10:00"

	// StaffID пустой или отсутствующий = проверить всех мастеров локации
	StaffID *string `json:"staffId,omitempty"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	WindowStart string `json:"windowStart"`
	WindowEnd   string `json:"windowEnd"`

	Available   []AvailableStaff   `json:"available"`
	Unavailable []UnavailableStaff `json:"unavailable"`

	// NextAvailable мастер, которого получит "next available" бронирование
	NextAvailable *string `json:"nextAvailable,omitempty"`
}

// AvailableStaff свободный мастер
type AvailableStaff struct {
	StaffID         string `json:"staffId"`
	Name            string `json:"name"`
	BookingsThatDay int    `json:"bookingsThatDay"`
}

// UnavailableStaff занятый или недоступный мастер
type UnavailableStaff struct {
	StaffID string `json:"staffId"`
	Name    string `json:"name,omitempty"`
	Reason  string `json:"reason"`
	Message string `json:"message"`

	WorkingHours *WorkingHours   `json:"workingHours,omitempty"`
	Conflict     *ConflictWindow `json:"conflict,omitempty"`
}

// WorkingHours рабочие часы мастера в этот день
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ConflictWindow окно конфликтующего бронирования
type ConflictWindow struct {
	BookingID string `json:"bookingId"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckAvailabilityRequest) ToUseCaseRequest(merchantID, locationID string) (*resolveAvailability.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTS, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	startTime, err := startTS.At(bookingDate)
	if err != nil {
		return nil, err
	}

	var staffID *string
	if r.StaffID != nil && *r.StaffID != "" {
		staffID = r.StaffID
	}

	return &resolveAvailability.Request{
		MerchantID:       merchantID,
		LocationID:       locationID,
		ServiceIDs:       r.ServiceIDs,
		StartTime:        startTime,
		RequestedStaffID: staffID,
	}, nil
}

// FromReport конвертирует отчёт резолвера в HTTP response
func FromReport(report *resolveAvailability.Report) *AvailabilityResponse {
	out := &AvailabilityResponse{
		WindowStart: report.Window.Start.Format(time.RFC3339),
		WindowEnd:   report.Window.End.Format(time.RFC3339),
		Available:   make([]AvailableStaff, 0, len(report.Available)),
		Unavailable: make([]UnavailableStaff, 0, len(report.Unavailable)),
	}

	for _, c := range report.Available {
		out.Available = append(out.Available, AvailableStaff{
			StaffID:         c.StaffID,
			Name:            c.Name,
			BookingsThatDay: c.BookingsThatDay,
		})
	}

	for _, u := range report.Unavailable {
		entry := UnavailableStaff{
			StaffID: u.StaffID,
			Name:    u.Name,
			Reason:  string(u.Reason),
			Message: u.Message,
		}
		if u.WorkingHours != nil {
			entry.WorkingHours = &WorkingHours{
				Start: u.WorkingHours.Start.String(),
				End:   u.WorkingHours.End.String(),
			}
		}
		if u.Conflict != nil {
			entry.Conflict = &ConflictWindow{
				BookingID: u.Conflict.BookingID,
				Start:     u.Conflict.Start.Format(time.RFC3339),
				End:       u.Conflict.End.Format(time.RFC3339),
			}
		}
		out.Unavailable = append(out.Unavailable, entry)
	}

	if staffID, ok := report.NextAvailable(); ok {
		out.NextAvailable = &staffID
	}

	return out
}
