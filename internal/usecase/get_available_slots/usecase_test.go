package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	policyRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/policy"
	rosterRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/roster"
	"github.com/heya-pos/HEYA-BookingService/internal/integrations/catalogservice"
	"github.com/heya-pos/HEYA-BookingService/pkg/ptr"
	"github.com/heya-pos/HEYA-BookingService/pkg/types"
)

const (
	testMerchantID = "merchant-1"
	testLocationID = "location-1"
)

// 2026-03-16 — понедельник
var testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

// Текущее время задолго до запрошенной даты, lead time не мешает
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func monday(hour, minute int) time.Time {
	return time.Date(2026, 3, 16, hour, minute, 0, 0, time.UTC)
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetOccupyingByLocationAndDate(_ context.Context, _, _ string, _ time.Time) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeRosterRepo struct {
	staff     map[string]*domain.Staff
	active    []*domain.Staff
	schedules map[string]domain.WeeklySchedule
	timeOff   map[string][]domain.TimeOff
}

func (f *fakeRosterRepo) GetStaff(_ context.Context, id string) (*domain.Staff, error) {
	s, ok := f.staff[id]
	if !ok {
		return nil, rosterRepo.ErrStaffNotFound
	}
	return s, nil
}

func (f *fakeRosterRepo) ListActiveByLocation(_ context.Context, _, _ string) ([]*domain.Staff, error) {
	return f.active, nil
}

func (f *fakeRosterRepo) GetWeeklySchedules(_ context.Context, _ []string) (map[string]domain.WeeklySchedule, error) {
	return f.schedules, nil
}

func (f *fakeRosterRepo) ListTimeOff(_ context.Context, _ []string, _, _ time.Time) (map[string][]domain.TimeOff, error) {
	return f.timeOff, nil
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
	services map[string]*catalogservice.Service
	location *catalogservice.Location
}

func (f *fakeCatalog) GetService(_ context.Context, _, serviceID string) (*catalogservice.Service, error) {
	s, ok := f.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetLocation(_ context.Context, _, _ string) (*catalogservice.Location, error) {
	if f.location == nil {
		return nil, catalogservice.ErrLocationNotFound
	}
	return f.location, nil
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

func testStaff(id, name string) *domain.Staff {
	return &domain.Staff{
		ID:         id,
		MerchantID: testMerchantID,
		LocationID: testLocationID,
		Name:       name,
		Active:     true,
	}
}

// Локация открыта в понедельник 09:00-12:00
func testLocation() *catalogservice.Location {
	return &catalogservice.Location{
		ID:         testLocationID,
		MerchantID: testMerchantID,
		Name:       "Downtown",
		WorkingHours: catalogservice.WeekHours{
			Monday: catalogservice.DaySchedule{
				IsOpen:    true,
				OpenTime:  ptr.Ptr("09:00"),
				CloseTime: ptr.Ptr("12:00"),
			},
		},
	}
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: map[string]*catalogservice.Service{
			"svc-cut": {ID: "svc-cut", Name: "Haircut", DurationMinutes: 60, Active: true},
		},
		location: testLocation(),
	}
}

func newTestUseCase(booking *fakeBookingRepo, roster *fakeRosterRepo, policy *fakePolicyRepo, catalog *fakeCatalog) *UseCase {
	uc := NewUseCase(booking, roster, policy, catalog, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func baseRequest() *Request {
	return &Request{
		MerchantID: testMerchantID,
		LocationID: testLocationID,
		ServiceIDs: []string{"svc-cut"},
		Date:       testDate,
	}
}

func slotTimes(slots []Slot) []types.TimeString {
	out := make([]types.TimeString, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime
	}
	return out
}

func TestExecute_GridFromOpenToClose(t *testing.T) {
	roster := &fakeRosterRepo{
		active: []*domain.Staff{testStaff("staff-amy", "Amy")},
		schedules: map[string]domain.WeeklySchedule{
			"staff-amy": {time.Monday: {Start: "09:00", End: "18:00"}},
		},
	}

	uc := newTestUseCase(&fakeBookingRepo{}, roster, &fakePolicyRepo{}, defaultCatalog())

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	// Часовая услуга при работе 09:00-12:00: последний старт 11:00,
	// шаг сетки 15 минут
	want := []types.TimeString{
		"09:00", "09:15", "09:30", "09:45",
		"10:00", "10:15", "10:30", "10:45",
		"11:00",
	}
	assert.Equal(t, want, slotTimes(resp.Slots))
	assert.Equal(t, want, resp.AvailableSlots)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
		assert.Equal(t, 1, slot.AvailableStaff)
		assert.Equal(t, 60, slot.DurationMinutes)
		assert.Nil(t, slot.Reason)
	}

	assert.Equal(t, types.TimeString("10:00"), resp.Slots[4].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[4].EndTime)
}

func TestExecute_ClosedDayReturnsEmptyGrid(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeRosterRepo{}, &fakePolicyRepo{}, defaultCatalog())

	req := baseRequest()
	req.Date = testDate.AddDate(0, 0, 1) // вторник: расписание не задано, закрыто

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
	assert.Empty(t, resp.AvailableSlots)
}

func TestExecute_BookingBlocksSlots(t *testing.T) {
	roster := &fakeRosterRepo{
		active: []*domain.Staff{testStaff("staff-amy", "Amy")},
		schedules: map[string]domain.WeeklySchedule{
			"staff-amy": {time.Monday: {Start: "09:00", End: "18:00"}},
		},
	}
	booking := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: "b1", StaffID: "staff-amy", StartTime: monday(10, 0), EndTime: monday(11, 0), Status: domain.StatusConfirmed},
	}}

	uc := newTestUseCase(booking, roster, &fakePolicyRepo{}, defaultCatalog())

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	// Часовая услуга пересекается с бронированием 10:00-11:00 на всех
	// стартах с 09:15 по 10:45; свободны только края дня
	assert.Equal(t, []types.TimeString{"09:00", "11:00"}, resp.AvailableSlots)
}

func TestExecute_SingleStaffReasons(t *testing.T) {
	roster := &fakeRosterRepo{
		staff: map[string]*domain.Staff{
			"staff-amy": testStaff("staff-amy", "Amy"),
		},
		schedules: map[string]domain.WeeklySchedule{
			// Смена начинается позже открытия локации
			"staff-amy": {time.Monday: {Start: "10:00", End: "18:00"}},
		},
	}
	booking := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: "b1", StaffID: "staff-amy", StartTime: monday(10, 0), EndTime: monday(11, 0), Status: domain.StatusPending},
	}}

	uc := newTestUseCase(booking, roster, &fakePolicyRepo{}, defaultCatalog())

	req := baseRequest()
	req.StaffID = ptr.Ptr("staff-amy")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	bySlot := make(map[types.TimeString]Slot, len(resp.Slots))
	for _, s := range resp.Slots {
		bySlot[s.StartTime] = s
	}

	early := bySlot["09:00"]
	assert.False(t, early.Available)
	require.NotNil(t, early.Reason)
	assert.Equal(t, "Not scheduled at this time", *early.Reason)

	busy := bySlot["10:30"]
	assert.False(t, busy.Available)
	require.NotNil(t, busy.Reason)
	assert.Equal(t, "Busy until 11:00 AM", *busy.Reason)

	free := bySlot["11:00"]
	assert.True(t, free.Available)
	assert.Nil(t, free.Reason)
}

func TestExecute_LeadTimeFiltersSlots(t *testing.T) {
	roster := &fakeRosterRepo{
		staff: map[string]*domain.Staff{
			"staff-amy": testStaff("staff-amy", "Amy"),
		},
		schedules: map[string]domain.WeeklySchedule{
			"staff-amy": {time.Monday: {Start: "09:00", End: "18:00"}},
		},
	}
	policy := &fakePolicyRepo{policy: &domain.BookingPolicy{
		MerchantID:          testMerchantID,
		AdvanceBookingHours: 2,
	}}

	uc := newTestUseCase(&fakeBookingRepo{}, roster, policy, defaultCatalog())
	// Утро запрошенного дня: слоты до 10:00 отрезаются lead time
	uc.timeProvider = &fixedTimeProvider{now: monday(8, 0)}

	req := baseRequest()
	req.StaffID = ptr.Ptr("staff-amy")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Граница включительно: слот ровно в now+2h доступен
	assert.Equal(t, []types.TimeString{
		"10:00", "10:15", "10:30", "10:45", "11:00",
	}, resp.AvailableSlots)

	bySlot := make(map[types.TimeString]Slot, len(resp.Slots))
	for _, s := range resp.Slots {
		bySlot[s.StartTime] = s
	}
	tooSoon := bySlot["09:45"]
	assert.False(t, tooSoon.Available)
	require.NotNil(t, tooSoon.Reason)
	assert.Equal(t, "Too soon to book", *tooSoon.Reason)
}

func TestExecute_MultipleStaffCounted(t *testing.T) {
	roster := &fakeRosterRepo{
		active: []*domain.Staff{
			testStaff("staff-amy", "Amy"),
			testStaff("staff-ben", "Ben"),
		},
		schedules: map[string]domain.WeeklySchedule{
			"staff-amy": {time.Monday: {Start: "09:00", End: "18:00"}},
			"staff-ben": {time.Monday: {Start: "09:00", End: "18:00"}},
		},
	}
	booking := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: "b1", StaffID: "staff-amy", StartTime: monday(9, 0), EndTime: monday(10, 0), Status: domain.StatusConfirmed},
	}}

	uc := newTestUseCase(booking, roster, &fakePolicyRepo{}, defaultCatalog())

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	bySlot := make(map[types.TimeString]Slot, len(resp.Slots))
	for _, s := range resp.Slots {
		bySlot[s.StartTime] = s
	}

	// Amy занята в 09:00, свободен только Ben
	assert.Equal(t, 1, bySlot["09:00"].AvailableStaff)
	assert.True(t, bySlot["09:00"].Available)

	// После 10:00 свободны оба
	assert.Equal(t, 2, bySlot["10:00"].AvailableStaff)
}

func TestExecute_LocationNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeRosterRepo{}, &fakePolicyRepo{}, &fakeCatalog{})

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestExecute_StaffNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeRosterRepo{}, &fakePolicyRepo{}, defaultCatalog())

	req := baseRequest()
	req.StaffID = ptr.Ptr("staff-ghost")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_NoStaffConfigured(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeRosterRepo{}, &fakePolicyRepo{}, defaultCatalog())

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrNoStaffConfigured)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeRosterRepo{}, &fakePolicyRepo{}, defaultCatalog())

	t.Run("empty service list", func(t *testing.T) {
		req := baseRequest()
		req.ServiceIDs = nil
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero date", func(t *testing.T) {
		req := baseRequest()
		req.Date = time.Time{}
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
