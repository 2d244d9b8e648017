package models

import (
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
)

// UpdatePolicyRequest запрос на обновление политики мерчанта.
// Частичное обновление: nil-поле сохраняет текущее значение.
type UpdatePolicyRequest struct {
	MerchantID string `json:"-"`

	AdvanceBookingHours     *int  `json:"advanceBookingHours,omitempty"`
	CancellationHours       *int  `json:"cancellationHours,omitempty"`
	BookingBufferMinutes    *int  `json:"bookingBufferMinutes,omitempty"`
	AllowUnassignedBookings *bool `json:"allowUnassignedBookings,omitempty"`
	ShowUnassignedColumn    *bool `json:"showUnassignedColumn,omitempty"`
}

// PolicyResponse ответ с политикой мерчанта
type PolicyResponse struct {
	MerchantID string `json:"merchantId"`

	AdvanceBookingHours     int  `json:"advanceBookingHours"`
	CancellationHours       int  `json:"cancellationHours"`
	BookingBufferMinutes    int  `json:"bookingBufferMinutes"`
	AllowUnassignedBookings bool `json:"allowUnassignedBookings"`
	ShowUnassignedColumn    bool `json:"showUnassignedColumn"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainPolicy конвертирует domain.BookingPolicy в PolicyResponse
func FromDomainPolicy(p *domain.BookingPolicy) *PolicyResponse {
	return &PolicyResponse{
		MerchantID:              p.MerchantID,
		AdvanceBookingHours:     p.AdvanceBookingHours,
		CancellationHours:       p.CancellationHours,
		BookingBufferMinutes:    p.BookingBufferMinutes,
		AllowUnassignedBookings: p.AllowUnassignedBookings,
		ShowUnassignedColumn:    p.ShowUnassignedColumn,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}
