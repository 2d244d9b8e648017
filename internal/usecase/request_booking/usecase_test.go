package request_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	policyRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/policy"
	"github.com/heya-pos/HEYA-BookingService/internal/integrations/catalogservice"
	"github.com/heya-pos/HEYA-BookingService/internal/usecase/resolve_availability"
	"github.com/heya-pos/HEYA-BookingService/pkg/ptr"
)

const (
	testMerchantID = "merchant-1"
	testCustomerID = "customer-1"
	testLocationID = "location-1"
)

var testNow = time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)

func monday(hour, minute int) time.Time {
	return time.Date(2026, 3, 16, hour, minute, 0, 0, time.UTC)
}

type fakeBookingRepo struct {
	conflicts []*domain.Booking
	created   *domain.Booking

	findCalls int
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	stored := *b
	stored.ID = "booking-new"
	stored.CreatedAt = testNow
	stored.UpdatedAt = testNow
	f.created = &stored
	return &stored, nil
}

func (f *fakeBookingRepo) FindConflicts(_ context.Context, _ string, _, _ time.Time, _ *string) ([]*domain.Booking, error) {
	f.findCalls++
	return f.conflicts, nil
}

type fakeResolver struct {
	report *resolve_availability.Report
	err    error

	lastRequest *resolve_availability.Request
}

func (f *fakeResolver) Execute(_ context.Context, req *resolve_availability.Request) (*resolve_availability.Report, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
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

type fakeCatalog struct {
	services  map[string]*catalogservice.Service
	locations map[string]*catalogservice.Location
}

func (f *fakeCatalog) GetService(_ context.Context, _, serviceID string) (*catalogservice.Service, error) {
	s, ok := f.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetLocation(_ context.Context, _, locationID string) (*catalogservice.Location, error) {
	l, ok := f.locations[locationID]
	if !ok {
		return nil, catalogservice.ErrLocationNotFound
	}
	return l, nil
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func defaultCatalog() *fakeCatalog {
	price := 45.0
	return &fakeCatalog{
		services: map[string]*catalogservice.Service{
			"svc-cut": {ID: "svc-cut", Name: "Haircut", DurationMinutes: 60, Price: &price, Active: true},
		},
		locations: map[string]*catalogservice.Location{
			testLocationID: {ID: testLocationID, MerchantID: testMerchantID, Name: "Downtown"},
		},
	}
}

func freeReport(staffIDs ...string) *resolve_availability.Report {
	report := &resolve_availability.Report{
		Window: domain.NewAvailabilityWindow(monday(10, 0), 60),
	}
	for _, id := range staffIDs {
		report.Available = append(report.Available, resolve_availability.StaffCandidate{StaffID: id})
	}
	return report
}

func newTestUseCase(repo *fakeBookingRepo, resolver *fakeResolver, policy *fakePolicyRepo, catalog *fakeCatalog) *UseCase {
	uc := NewUseCase(repo, policy, resolver, catalog, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func baseRequest() *Request {
	return &Request{
		MerchantID: testMerchantID,
		CustomerID: testCustomerID,
		LocationID: testLocationID,
		ServiceIDs: []string{"svc-cut"},
		StartTime:  monday(10, 0),
	}
}

func TestExecute_NextAvailableResolvedToConcreteStaff(t *testing.T) {
	repo := &fakeBookingRepo{}
	resolver := &fakeResolver{report: freeReport("staff-amy", "staff-ben")}

	uc := newTestUseCase(repo, resolver, &fakePolicyRepo{}, defaultCatalog())

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	// Записан первый кандидат детерминированного порядка, не плейсхолдер
	assert.Equal(t, "staff-amy", resp.Booking.StaffID)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
	assert.Equal(t, monday(10, 0), resp.Booking.StartTime)
	assert.Equal(t, monday(11, 0), resp.Booking.EndTime)
	assert.Equal(t, 60, resp.Booking.DurationMinutes)
	assert.Equal(t, []string{"svc-cut"}, resp.Booking.ServiceIDs)
	assert.Equal(t, []string{"Haircut"}, resp.Booking.ServiceNames)
	assert.Equal(t, 45.0, resp.Booking.TotalPrice)
	assert.Nil(t, resp.Booking.OverrideReason)

	require.NotNil(t, resolver.lastRequest)
	assert.Nil(t, resolver.lastRequest.RequestedStaffID)
}

func TestExecute_RequestedStaffAvailable(t *testing.T) {
	repo := &fakeBookingRepo{}
	resolver := &fakeResolver{report: freeReport("staff-amy", "staff-ben")}

	uc := newTestUseCase(repo, resolver, &fakePolicyRepo{}, defaultCatalog())

	req := baseRequest()
	req.RequestedStaffID = ptr.Ptr("staff-ben")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "staff-ben", resp.Booking.StaffID)
}

func TestExecute_RequestedStaffConflict(t *testing.T) {
	report := &resolve_availability.Report{
		Window: domain.NewAvailabilityWindow(monday(10, 0), 60),
		Unavailable: []resolve_availability.UnavailableStaff{{
			StaffID: "staff-amy",
			Reason:  resolve_availability.ReasonConflict,
			Message: "Staff member has another booking until 11:30 AM",
		}},
	}
	repo := &fakeBookingRepo{}

	uc := newTestUseCase(repo, &fakeResolver{report: report}, &fakePolicyRepo{}, defaultCatalog())

	req := baseRequest()
	req.RequestedStaffID = ptr.Ptr("staff-amy")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.Nil(t, repo.created)
}

func TestExecute_RequestedStaffNotRostered(t *testing.T) {
	report := &resolve_availability.Report{
		Window: domain.NewAvailabilityWindow(monday(10, 0), 60),
		Unavailable: []resolve_availability.UnavailableStaff{{
			StaffID: "staff-amy",
			Reason:  resolve_availability.ReasonNotRostered,
			Message: "Amy is not scheduled to work on this day",
		}},
	}

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeResolver{report: report}, &fakePolicyRepo{}, defaultCatalog())

	req := baseRequest()
	req.RequestedStaffID = ptr.Ptr("staff-amy")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotRostered)
}

func TestExecute_RequestedStaffNotFound_NeverOverridable(t *testing.T) {
	report := &resolve_availability.Report{
		Window: domain.NewAvailabilityWindow(monday(10, 0), 60),
		Unavailable: []resolve_availability.UnavailableStaff{{
			StaffID: "staff-ghost",
			Reason:  resolve_availability.ReasonStaffNotFound,
			Message: "Staff member does not exist",
		}},
	}

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeResolver{report: report}, &fakePolicyRepo{}, defaultCatalog())

	req := baseRequest()
	req.RequestedStaffID = ptr.Ptr("staff-ghost")
	req.IsOverride = true
	req.OverrideReason = ptr.Ptr("walk-in")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_CommitTimeRaceDetected(t *testing.T) {
	// Резолвер видит мастера свободным, но к финальной проверке конкурент
	// уже вставил пересекающееся бронирование
	repo := &fakeBookingRepo{conflicts: []*domain.Booking{
		{ID: "b-race", StaffID: "staff-amy", StartTime: monday(10, 30), EndTime: monday(11, 30), Status: domain.StatusPending},
	}}
	resolver := &fakeResolver{report: freeReport("staff-amy")}

	uc := newTestUseCase(repo, resolver, &fakePolicyRepo{}, defaultCatalog())

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.Nil(t, repo.created)
	assert.Equal(t, 1, repo.findCalls)
}

func TestExecute_OverrideCommitsDespiteConflict(t *testing.T) {
	report := &resolve_availability.Report{
		Window: domain.NewAvailabilityWindow(monday(10, 0), 60),
		Unavailable: []resolve_availability.UnavailableStaff{{
			StaffID: "staff-amy",
			Reason:  resolve_availability.ReasonConflict,
			Message: "Staff member has another booking until 11:30 AM",
		}},
	}
	repo := &fakeBookingRepo{conflicts: []*domain.Booking{
		{ID: "b-existing", StaffID: "staff-amy", StartTime: monday(10, 30), EndTime: monday(11, 30), Status: domain.StatusConfirmed},
	}}

	uc := newTestUseCase(repo, &fakeResolver{report: report}, &fakePolicyRepo{}, defaultCatalog())

	req := baseRequest()
	req.RequestedStaffID = ptr.Ptr("staff-amy")
	req.IsOverride = true
	req.OverrideReason = ptr.Ptr("VIP double-booked on purpose")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "staff-amy", resp.Booking.StaffID)
	require.NotNil(t, resp.Booking.OverrideReason)
	assert.Equal(t, "VIP double-booked on purpose", *resp.Booking.OverrideReason)
}

func TestExecute_OverrideRequiresReason(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeResolver{report: freeReport("staff-amy")}, &fakePolicyRepo{}, defaultCatalog())

	req := baseRequest()
	req.IsOverride = true

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_LeadTimeBoundary(t *testing.T) {
	policy := &fakePolicyRepo{policy: &domain.BookingPolicy{
		MerchantID:          testMerchantID,
		AdvanceBookingHours: 2,
	}}

	t.Run("start exactly at boundary passes", func(t *testing.T) {
		repo := &fakeBookingRepo{}
		uc := newTestUseCase(repo, &fakeResolver{report: freeReport("staff-amy")}, policy, defaultCatalog())

		req := baseRequest()
		req.StartTime = testNow.Add(2 * time.Hour)

		_, err := uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("one minute earlier fails", func(t *testing.T) {
		repo := &fakeBookingRepo{}
		uc := newTestUseCase(repo, &fakeResolver{report: freeReport("staff-amy")}, policy, defaultCatalog())

		req := baseRequest()
		req.StartTime = testNow.Add(2*time.Hour - time.Minute)

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrLeadTimeTooShort)
		assert.Nil(t, repo.created)
	})

	t.Run("override bypasses lead time", func(t *testing.T) {
		repo := &fakeBookingRepo{}
		uc := newTestUseCase(repo, &fakeResolver{report: freeReport("staff-amy")}, policy, defaultCatalog())

		req := baseRequest()
		req.StartTime = testNow.Add(10 * time.Minute)
		req.IsOverride = true
		req.OverrideReason = ptr.Ptr("walk-in")

		_, err := uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})
}

func TestExecute_NoAvailability(t *testing.T) {
	report := &resolve_availability.Report{
		Window: domain.NewAvailabilityWindow(monday(10, 0), 60),
		Unavailable: []resolve_availability.UnavailableStaff{
			{StaffID: "staff-amy", Reason: resolve_availability.ReasonConflict},
			{StaffID: "staff-ben", Reason: resolve_availability.ReasonNotRostered},
		},
	}

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeResolver{report: report}, &fakePolicyRepo{}, defaultCatalog())

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestExecute_NoStaffConfigured(t *testing.T) {
	resolver := &fakeResolver{err: resolve_availability.ErrNoStaffConfigured}

	uc := newTestUseCase(&fakeBookingRepo{}, resolver, &fakePolicyRepo{}, defaultCatalog())

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrNoStaffConfigured)
}

func TestExecute_LocationNotFound(t *testing.T) {
	catalog := defaultCatalog()
	catalog.locations = map[string]*catalogservice.Location{}

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeResolver{report: freeReport("staff-amy")}, &fakePolicyRepo{}, catalog)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestExecute_InactiveService(t *testing.T) {
	catalog := defaultCatalog()
	catalog.services["svc-cut"].Active = false

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeResolver{report: freeReport("staff-amy")}, &fakePolicyRepo{}, catalog)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeResolver{report: freeReport("staff-amy")}, &fakePolicyRepo{}, defaultCatalog())

	t.Run("missing customer", func(t *testing.T) {
		req := baseRequest()
		req.CustomerID = ""
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("reason without override flag", func(t *testing.T) {
		req := baseRequest()
		req.OverrideReason = ptr.Ptr("unused")
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
