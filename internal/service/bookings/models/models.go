package models

import (
	"errors"
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	MerchantID string `json:"-"`
	BookingID  string `json:"-"`
	Status     string `json:"status"`
}

// GetCustomerBookingsRequest запрос истории бронирований клиента
type GetCustomerBookingsRequest struct {
	MerchantID string  `json:"-"`
	CustomerID string  `json:"-"`
	Status     *string `json:"status,omitempty"`
}

// GetLocationBookingsRequest запрос бронирований локации (календарь мерчанта)
type GetLocationBookingsRequest struct {
	MerchantID      string     `json:"-"`
	LocationID      string     `json:"-"`
	StaffID         *string    `json:"staffId,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetLocationBookingsRequest) ToDomainFilter() (domain.LocationBookingsFilter, error) {
	filter := domain.LocationBookingsFilter{
		MerchantID:      r.MerchantID,
		LocationID:      r.LocationID,
		StaffID:         r.StaffID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         string `json:"id"`
	MerchantID string `json:"merchantId"`
	CustomerID string `json:"customerId"`
	LocationID string `json:"locationId"`
	StaffID    string `json:"staffId"`

	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`

	PaddingBeforeMinutes int `json:"paddingBeforeMinutes"`
	PaddingAfterMinutes  int `json:"paddingAfterMinutes"`

	Status string `json:"status"`

	ServiceIDs   []string `json:"serviceIds"`
	ServiceNames []string `json:"serviceNames"`
	TotalPrice   float64  `json:"totalPrice"`

	Notes          *string `json:"notes,omitempty"`
	OverrideReason *string `json:"overrideReason,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                   b.ID,
		MerchantID:           b.MerchantID,
		CustomerID:           b.CustomerID,
		LocationID:           b.LocationID,
		StaffID:              b.StaffID,
		StartTime:            b.StartTime,
		EndTime:              b.EndTime,
		DurationMinutes:      b.DurationMinutes,
		PaddingBeforeMinutes: b.PaddingBeforeMinutes,
		PaddingAfterMinutes:  b.PaddingAfterMinutes,
		Status:               string(b.Status),
		ServiceIDs:           b.ServiceIDs,
		ServiceNames:         b.ServiceNames,
		TotalPrice:           b.TotalPrice,
		Notes:                b.Notes,
		OverrideReason:       b.OverrideReason,
		CancellationReason:   b.CancellationReason,
		CancelledAt:          b.CancelledAt,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain.Booking в BookingListResponse
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, *FromDomainBooking(b))
	}
	return result
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !domain.ValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}
