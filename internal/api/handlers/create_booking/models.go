package create_booking

import (
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	requestBooking "github.com/heya-pos/HEYA-BookingService/internal/usecase/request_booking"
	"github.com/heya-pos/HEYA-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerID string   `json:"customerId"`
	LocationID string   `json:"locationId"`
	ServiceIDs []string `json:"serviceIds"`

	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // "10:00"

	// StaffID пустой или отсутствующий = "next available"
	StaffID *string `json:"staffId,omitempty"`

	Notes *string `json:"notes,omitempty"`

	IsOverride     bool    `json:"isOverride,omitempty"`
	OverrideReason *string `json:"overrideReason,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	LocationID string `json:"locationId"`
	StaffID    string `json:"staffId"`

	BookingDate     string `json:"bookingDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`

	Status string `json:"status"`

	ServiceIDs   []string `json:"serviceIds"`
	ServiceNames []string `json:"serviceNames"`
	TotalPrice   float64  `json:"totalPrice"`

	Notes          *string `json:"notes,omitempty"`
	OverrideReason *string `json:"overrideReason,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(merchantID string) (*requestBooking.Request, error) {
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

	return &requestBooking.Request{
		MerchantID:       merchantID,
		CustomerID:       r.CustomerID,
		LocationID:       r.LocationID,
		ServiceIDs:       r.ServiceIDs,
		StartTime:        startTime,
		RequestedStaffID: staffID,
		Notes:            r.Notes,
		IsOverride:       r.IsOverride,
		OverrideReason:   r.OverrideReason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *requestBooking.Response) *BookingResponse {
	b := resp.Booking
	return &BookingResponse{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		LocationID:      b.LocationID,
		StaffID:         b.StaffID,
		BookingDate:     b.StartTime.Format(domain.DateFormat),
		StartTime:       b.StartTime.Format(domain.TimeFormat),
		EndTime:         b.EndTime.Format(domain.TimeFormat),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		ServiceIDs:      b.ServiceIDs,
		ServiceNames:    b.ServiceNames,
		TotalPrice:      b.TotalPrice,
		Notes:           b.Notes,
		OverrideReason:  b.OverrideReason,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}
