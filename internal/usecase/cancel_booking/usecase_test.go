package cancel_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	bookingRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/booking"
	policyRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/policy"
)

const testMerchantID = "merchant-1"

var testNow = time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	booking *domain.Booking

	cancelCalls  int
	cancelReason string
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, _, reason string) error {
	f.cancelCalls++
	f.cancelReason = reason
	return nil
}

type fakePolicyRepo struct {
	policy *domain.BookingPolicy
}

func (f *fakePolicyRepo) GetByMerchant(_ context.Context, _ string) (*domain.BookingPolicy, error) {
	if f.policy == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return f.policy, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testBooking(status domain.BookingStatus, start time.Time) *domain.Booking {
	return &domain.Booking{
		ID:         "booking-1",
		MerchantID: testMerchantID,
		CustomerID: "customer-1",
		LocationID: "location-1",
		StaffID:    "staff-amy",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Status:     status,
	}
}

func newTestUseCase(repo *fakeBookingRepo, policy *fakePolicyRepo) *UseCase {
	uc := NewUseCase(repo, policy, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func baseRequest() *Request {
	return &Request{
		MerchantID: testMerchantID,
		BookingID:  "booking-1",
		Reason:     "customer asked to cancel",
	}
}

func TestExecute_CancelsPendingBooking(t *testing.T) {
	// Дефолтная политика требует 24 часа уведомления
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending, testNow.Add(48*time.Hour))}

	uc := newTestUseCase(repo, &fakePolicyRepo{})

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.AlreadyCancelled)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
	require.NotNil(t, resp.Booking.CancellationReason)
	assert.Equal(t, "customer asked to cancel", *resp.Booking.CancellationReason)
	require.NotNil(t, resp.Booking.CancelledAt)
	assert.Equal(t, testNow, *resp.Booking.CancelledAt)

	assert.Equal(t, 1, repo.cancelCalls)
	assert.Equal(t, "customer asked to cancel", repo.cancelReason)
}

func TestExecute_AlreadyCancelledIsIdempotent(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusCancelled, testNow.Add(48*time.Hour))}

	uc := newTestUseCase(repo, &fakePolicyRepo{})

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.True(t, resp.AlreadyCancelled)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
	// Повторная отмена не трогает хранилище
	assert.Equal(t, 0, repo.cancelCalls)
}

func TestExecute_TerminalStatusesCannotBeCancelled(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusNoShow, domain.StatusInProgress} {
		t.Run(string(status), func(t *testing.T) {
			repo := &fakeBookingRepo{booking: testBooking(status, testNow.Add(48*time.Hour))}

			uc := newTestUseCase(repo, &fakePolicyRepo{})

			_, err := uc.Execute(context.Background(), baseRequest())
			assert.ErrorIs(t, err, ErrCannotCancel)
			assert.Equal(t, 0, repo.cancelCalls)
		})
	}
}

func TestExecute_NoticeBoundary(t *testing.T) {
	policy := &fakePolicyRepo{policy: &domain.BookingPolicy{
		MerchantID:        testMerchantID,
		CancellationHours: 24,
	}}

	t.Run("booking exactly at boundary passes", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed, testNow.Add(24*time.Hour))}
		uc := newTestUseCase(repo, policy)

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.NoError(t, err)
	})

	t.Run("one minute inside notice window fails", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed, testNow.Add(24*time.Hour-time.Minute))}
		uc := newTestUseCase(repo, policy)

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrNoticeTooShort)
		assert.Equal(t, 0, repo.cancelCalls)
	})

	t.Run("override bypasses notice check", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed, testNow.Add(time.Hour))}
		uc := newTestUseCase(repo, policy)

		req := baseRequest()
		req.IsOverride = true

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
	})
}

func TestExecute_BookingNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakePolicyRepo{})

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_ForeignMerchantBookingNotFound(t *testing.T) {
	booking := testBooking(domain.StatusPending, testNow.Add(48*time.Hour))
	booking.MerchantID = "merchant-other"
	repo := &fakeBookingRepo{booking: booking}

	uc := newTestUseCase(repo, &fakePolicyRepo{})

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Equal(t, 0, repo.cancelCalls)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakePolicyRepo{})

	t.Run("missing reason", func(t *testing.T) {
		req := baseRequest()
		req.Reason = ""
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing booking id", func(t *testing.T) {
		req := baseRequest()
		req.BookingID = ""
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
