package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	policyRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/policy"
	"github.com/heya-pos/HEYA-BookingService/internal/service/policy/models"
	"github.com/heya-pos/HEYA-BookingService/pkg/ptr"
)

const testMerchantID = "merchant-1"

type fakePolicyRepo struct {
	policy *domain.BookingPolicy

	upserted *domain.BookingPolicy
}

func (f *fakePolicyRepo) GetByMerchant(_ context.Context, _ string) (*domain.BookingPolicy, error) {
	if f.policy == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	p := *f.policy
	return &p, nil
}

func (f *fakePolicyRepo) Upsert(_ context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	stored := *p
	f.upserted = &stored
	return &stored, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestGet_StoredPolicy(t *testing.T) {
	repo := &fakePolicyRepo{policy: &domain.BookingPolicy{
		MerchantID:           testMerchantID,
		AdvanceBookingHours:  4,
		CancellationHours:    48,
		BookingBufferMinutes: 15,
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Get(context.Background(), testMerchantID)
	require.NoError(t, err)

	assert.Equal(t, 4, resp.AdvanceBookingHours)
	assert.Equal(t, 48, resp.CancellationHours)
	assert.Equal(t, 15, resp.BookingBufferMinutes)
}

func TestGet_DefaultsWhenMissing(t *testing.T) {
	svc := NewService(&fakePolicyRepo{}, nopLogger{})

	resp, err := svc.Get(context.Background(), testMerchantID)
	require.NoError(t, err)

	assert.Equal(t, testMerchantID, resp.MerchantID)
	assert.Equal(t, domain.DefaultAdvanceBookingHours, resp.AdvanceBookingHours)
	assert.Equal(t, domain.DefaultCancellationHours, resp.CancellationHours)
	assert.Equal(t, domain.DefaultBookingBufferMinutes, resp.BookingBufferMinutes)
}

func TestGet_EmptyMerchant(t *testing.T) {
	svc := NewService(&fakePolicyRepo{}, nopLogger{})

	_, err := svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_PartialUpdate(t *testing.T) {
	repo := &fakePolicyRepo{policy: &domain.BookingPolicy{
		MerchantID:           testMerchantID,
		AdvanceBookingHours:  2,
		CancellationHours:    24,
		BookingBufferMinutes: 10,
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Update(context.Background(), &models.UpdatePolicyRequest{
		MerchantID:        testMerchantID,
		CancellationHours: ptr.Ptr(48),
	})
	require.NoError(t, err)

	// Незаданные поля сохраняют текущие значения
	assert.Equal(t, 2, resp.AdvanceBookingHours)
	assert.Equal(t, 48, resp.CancellationHours)
	assert.Equal(t, 10, resp.BookingBufferMinutes)

	require.NotNil(t, repo.upserted)
	assert.Equal(t, 48, repo.upserted.CancellationHours)
}

func TestUpdate_FirstUpdateStartsFromDefaults(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Update(context.Background(), &models.UpdatePolicyRequest{
		MerchantID:          testMerchantID,
		AdvanceBookingHours: ptr.Ptr(6),
	})
	require.NoError(t, err)

	assert.Equal(t, 6, resp.AdvanceBookingHours)
	assert.Equal(t, domain.DefaultCancellationHours, resp.CancellationHours)
	assert.Equal(t, domain.DefaultBookingBufferMinutes, resp.BookingBufferMinutes)
}

func TestUpdate_Flags(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Update(context.Background(), &models.UpdatePolicyRequest{
		MerchantID:              testMerchantID,
		AllowUnassignedBookings: ptr.Ptr(true),
		ShowUnassignedColumn:    ptr.Ptr(true),
	})
	require.NoError(t, err)

	assert.True(t, resp.AllowUnassignedBookings)
	assert.True(t, resp.ShowUnassignedColumn)
}

func TestUpdate_RangeValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UpdatePolicyRequest
	}{
		{"negative advance hours", &models.UpdatePolicyRequest{
			MerchantID:          testMerchantID,
			AdvanceBookingHours: ptr.Ptr(-1),
		}},
		{"advance hours above a year", &models.UpdatePolicyRequest{
			MerchantID:          testMerchantID,
			AdvanceBookingHours: ptr.Ptr(domain.MaxAdvanceBookingHours + 1),
		}},
		{"negative cancellation hours", &models.UpdatePolicyRequest{
			MerchantID:        testMerchantID,
			CancellationHours: ptr.Ptr(-1),
		}},
		{"buffer above max", &models.UpdatePolicyRequest{
			MerchantID:           testMerchantID,
			BookingBufferMinutes: ptr.Ptr(domain.MaxBookingBufferMinutes + 1),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePolicyRepo{}
			svc := NewService(repo, nopLogger{})

			_, err := svc.Update(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrValueOutOfRange)
			assert.Nil(t, repo.upserted)
		})
	}
}

func TestUpdate_EmptyMerchant(t *testing.T) {
	svc := NewService(&fakePolicyRepo{}, nopLogger{})

	_, err := svc.Update(context.Background(), &models.UpdatePolicyRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
