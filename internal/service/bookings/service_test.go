package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	bookingRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/booking"
	"github.com/heya-pos/HEYA-BookingService/internal/service/bookings/models"
	"github.com/heya-pos/HEYA-BookingService/pkg/ptr"
)

const testMerchantID = "merchant-1"

type fakeBookingRepo struct {
	booking  *domain.Booking
	bookings []*domain.Booking

	lastFilter      *domain.LocationBookingsFilter
	lastStatus      *domain.BookingStatus
	updatedStatuses []domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeBookingRepo) GetByCustomer(_ context.Context, _, _ string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	f.lastStatus = status
	return f.bookings, nil
}

func (f *fakeBookingRepo) GetByLocationWithFilter(_ context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = &filter
	return f.bookings, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ string, status domain.BookingStatus) error {
	f.updatedStatuses = append(f.updatedStatuses, status)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testBooking(status domain.BookingStatus) *domain.Booking {
	start := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:              "booking-1",
		MerchantID:      testMerchantID,
		CustomerID:      "customer-1",
		LocationID:      "location-1",
		StaffID:         "staff-amy",
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		DurationMinutes: 60,
		Status:          status,
		ServiceIDs:      []string{"svc-cut"},
		ServiceNames:    []string{"Haircut"},
		TotalPrice:      45,
	}
}

func TestGetByID(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetByID(context.Background(), testMerchantID, "booking-1")
	require.NoError(t, err)

	assert.Equal(t, "booking-1", resp.ID)
	assert.Equal(t, "staff-amy", resp.StaffID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, nopLogger{})

	_, err := svc.GetByID(context.Background(), testMerchantID, "booking-ghost")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID_ForeignMerchant(t *testing.T) {
	booking := testBooking(domain.StatusConfirmed)
	booking.MerchantID = "merchant-other"
	svc := NewService(&fakeBookingRepo{booking: booking}, nopLogger{})

	_, err := svc.GetByID(context.Background(), testMerchantID, "booking-1")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetCustomerBookings(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		testBooking(domain.StatusConfirmed),
		testBooking(domain.StatusCompleted),
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		MerchantID: testMerchantID,
		CustomerID: "customer-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Bookings, 2)
	assert.Nil(t, repo.lastStatus)
}

func TestGetCustomerBookings_StatusFilter(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := NewService(repo, nopLogger{})

	_, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		MerchantID: testMerchantID,
		CustomerID: "customer-1",
		Status:     ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.lastStatus)
}

func TestGetCustomerBookings_InvalidStatus(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, nopLogger{})

	_, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		MerchantID: testMerchantID,
		CustomerID: "customer-1",
		Status:     ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetLocationBookings_FilterMapping(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := NewService(repo, nopLogger{})

	from := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetLocationBookings(context.Background(), &models.GetLocationBookingsRequest{
		MerchantID:      testMerchantID,
		LocationID:      "location-1",
		StaffID:         ptr.Ptr("staff-amy"),
		StartDate:       &from,
		EndDate:         &to,
		Status:          ptr.Ptr("pending"),
		IncludeInactive: true,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter)
	assert.Equal(t, testMerchantID, repo.lastFilter.MerchantID)
	assert.Equal(t, "location-1", repo.lastFilter.LocationID)
	assert.Equal(t, ptr.Ptr("staff-amy"), repo.lastFilter.StaffID)
	assert.Equal(t, &from, repo.lastFilter.StartDate)
	assert.Equal(t, &to, repo.lastFilter.EndDate)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusPending, *repo.lastFilter.Status)
	assert.True(t, repo.lastFilter.IncludeInactive)
}

func TestUpdateStatus_AllowedTransition(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		MerchantID: testMerchantID,
		BookingID:  "booking-1",
		Status:     "confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, []domain.BookingStatus{domain.StatusConfirmed}, repo.updatedStatuses)
}

func TestUpdateStatus_ForbiddenTransition(t *testing.T) {
	tests := []struct {
		from domain.BookingStatus
		to   string
	}{
		{domain.StatusPending, "completed"},
		{domain.StatusConfirmed, "pending"},
		{domain.StatusCompleted, "in_progress"},
		{domain.StatusCancelled, "confirmed"},
		// Отмена не операционный переход
		{domain.StatusPending, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+tt.to, func(t *testing.T) {
			repo := &fakeBookingRepo{booking: testBooking(tt.from)}
			svc := NewService(repo, nopLogger{})

			_, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
				MerchantID: testMerchantID,
				BookingID:  "booking-1",
				Status:     tt.to,
			})
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Empty(t, repo.updatedStatuses)
		})
	}
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc := NewService(&fakeBookingRepo{booking: testBooking(domain.StatusPending)}, nopLogger{})

	_, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		MerchantID: testMerchantID,
		BookingID:  "booking-1",
		Status:     "archived",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_ForeignMerchant(t *testing.T) {
	booking := testBooking(domain.StatusPending)
	booking.MerchantID = "merchant-other"
	svc := NewService(&fakeBookingRepo{booking: booking}, nopLogger{})

	_, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		MerchantID: testMerchantID,
		BookingID:  "booking-1",
		Status:     "confirmed",
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
