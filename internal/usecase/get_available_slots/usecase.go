package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	policyRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/policy"
	rosterRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/roster"
	catalogClient "github.com/heya-pos/HEYA-BookingService/internal/integrations/catalogservice"
	"github.com/heya-pos/HEYA-BookingService/internal/policyguard"
	"github.com/heya-pos/HEYA-BookingService/pkg/ptr"
	"github.com/heya-pos/HEYA-BookingService/pkg/types"
)

// UseCase use case для получения сетки доступных слотов на дату
type UseCase struct {
	bookingRepo  BookingRepository
	rosterRepo   RosterRepository
	policyRepo   PolicyRepository
	catalog      CatalogServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rosterRepo RosterRepository,
	policyRepo PolicyRepository,
	catalog CatalogServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		rosterRepo:   rosterRepo,
		policyRepo:   policyRepo,
		catalog:      catalog,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Сетка строится по рабочим часам локации с шагом SlotGranularityMinutes;
// слот доступен, если хотя бы один мастер (или запрошенный мастер)
// на смене и свободен с учетом паддинга.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: merchant=%s, location=%s, services=%d, date=%s, staff=%v",
		req.MerchantID, req.LocationID, len(req.ServiceIDs), req.Date.Format(domain.DateFormat), req.StaffID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем локацию и её рабочие часы на эту дату
	location, err := uc.catalog.GetLocation(ctx, req.MerchantID, req.LocationID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrLocationNotFound) {
			uc.logger.Warn("GetAvailableSlots: location id=%s not found", req.LocationID)
			return nil, fmt.Errorf("%w: id=%s", ErrLocationNotFound, req.LocationID)
		}
		uc.logger.Error("GetAvailableSlots: failed to get location id=%s: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	daySchedule := locationDaySchedule(location, req.Date.Weekday())
	if !daySchedule.IsOpen || daySchedule.OpenTime == nil || daySchedule.CloseTime == nil {
		uc.logger.Info("GetAvailableSlots: location id=%s is closed on %s",
			req.LocationID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	open, err := types.NewTimeStringFromString(*daySchedule.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid location open time: %v", ErrInternal, err)
	}
	close, err := types.NewTimeStringFromString(*daySchedule.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid location close time: %v", ErrInternal, err)
	}

	// 4. Политика мерчанта и услуги: суммарная длительность и паддинг
	policy, err := uc.loadPolicy(ctx, req.MerchantID)
	if err != nil {
		return nil, err
	}

	totalDuration, padBefore, padAfter, err := uc.resolveServices(ctx, req, policy)
	if err != nil {
		return nil, err
	}

	// 5. Набор мастеров для сетки
	staffList, err := uc.collectStaff(ctx, req)
	if err != nil {
		return nil, err
	}

	// 6. Загружаем расписания, отсутствия и дневные бронирования батчами
	staffIDs := make([]string, len(staffList))
	for i, s := range staffList {
		staffIDs[i] = s.ID
	}

	schedules, err := uc.rosterRepo.GetWeeklySchedules(ctx, staffIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load schedules: %v", err)
		return nil, fmt.Errorf("%w: failed to load schedules: %v", ErrInternal, err)
	}

	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	timeOff, err := uc.rosterRepo.ListTimeOff(ctx, staffIDs, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load time off: %v", err)
		return nil, fmt.Errorf("%w: failed to load time off: %v", ErrInternal, err)
	}

	dayBookings, err := uc.bookingRepo.GetOccupyingByLocationAndDate(ctx, req.MerchantID, req.LocationID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
	}
	bookingsByStaff := groupBookingsByStaff(dayBookings)

	// 7. Минимальное время старта: lead time мерчанта от текущего момента
	earliestStart := now.Add(time.Duration(policy.AdvanceBookingHours) * time.Hour)

	// 8. Генерируем сетку и оцениваем каждый слот
	slotTimes, err := generateSlotTimes(open, close, totalDuration, domain.SlotGranularityMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	days := make([]staffDay, len(staffList))
	for i, s := range staffList {
		days[i] = staffDay{
			staff:       s,
			schedule:    schedules[s.ID],
			timeOff:     timeOff[s.ID],
			dayBookings: bookingsByStaff[s.ID],
		}
	}

	resp := &Response{
		Date:           req.Date,
		LocationID:     req.LocationID,
		Slots:          make([]Slot, 0, len(slotTimes)),
		AvailableSlots: []types.TimeString{},
	}

	singleStaff := req.StaffID != nil

	for _, startTS := range slotTimes {
		slotStart, err := startTS.At(dayStart)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to materialize slot time: %v", ErrInternal, err)
		}

		endTS, err := startTS.AddMinutes(totalDuration)
		if err != nil {
			continue
		}

		slot := Slot{
			StartTime:       startTS,
			EndTime:         endTS,
			DurationMinutes: totalDuration,
		}

		// Граница включительно: слот ровно через advance_booking_hours проходит
		if slotStart.Before(earliestStart) {
			if singleStaff {
				slot.Reason = ptr.Ptr("Too soon to book")
			}
			resp.Slots = append(resp.Slots, slot)
			continue
		}

		window := domain.NewAvailabilityWindow(slotStart, totalDuration)

		available := 0
		var reason string
		for _, sd := range days {
			free, busyReason := staffFreeForWindow(sd, window, padBefore, padAfter)
			if free {
				available++
			} else if reason == "" {
				reason = busyReason
			}
		}

		slot.AvailableStaff = available
		slot.Available = available > 0
		if !slot.Available && singleStaff {
			slot.Reason = ptr.Ptr(reason)
		}

		resp.Slots = append(resp.Slots, slot)
		if slot.Available {
			resp.AvailableSlots = append(resp.AvailableSlots, startTS)
		}
	}

	uc.logger.Info("GetAvailableSlots: %d slots, %d available for location=%s, date=%s",
		len(resp.Slots), len(resp.AvailableSlots), req.LocationID, req.Date.Format(domain.DateFormat))

	return resp, nil
}

// resolveServices получает услуги из каталога, суммирует длительности
// и считает эффективный паддинг
func (uc *UseCase) resolveServices(ctx context.Context, req *Request, policy *domain.BookingPolicy) (totalDuration, padBefore, padAfter int, err error) {
	var firstBefore, lastAfter *int

	for i, serviceID := range req.ServiceIDs {
		service, err := uc.catalog.GetService(ctx, req.MerchantID, serviceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%s not found", serviceID)
				return 0, 0, 0, fmt.Errorf("%w: id=%s", ErrServiceNotFound, serviceID)
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", serviceID, err)
			return 0, 0, 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if service.DurationMinutes <= 0 || service.DurationMinutes > domain.MaxServiceDurationMinutes {
			return 0, 0, 0, fmt.Errorf("%w: service id=%s has invalid duration %d",
				ErrInvalidInput, serviceID, service.DurationMinutes)
		}

		totalDuration += service.DurationMinutes

		if i == 0 {
			firstBefore = service.PaddingBeforeMinutes
		}
		if i == len(req.ServiceIDs)-1 {
			lastAfter = service.PaddingAfterMinutes
		}
	}

	padBefore, padAfter = policyguard.EffectivePadding(firstBefore, lastAfter, policy)
	return totalDuration, padBefore, padAfter, nil
}

// collectStaff возвращает мастеров для сетки: запрошенного или всех активных
func (uc *UseCase) collectStaff(ctx context.Context, req *Request) ([]*domain.Staff, error) {
	if req.StaffID != nil {
		staff, err := uc.rosterRepo.GetStaff(ctx, *req.StaffID)
		if err != nil {
			if errors.Is(err, rosterRepo.ErrStaffNotFound) {
				uc.logger.Warn("GetAvailableSlots: staff id=%s not found", *req.StaffID)
				return nil, fmt.Errorf("%w: id=%s", ErrStaffNotFound, *req.StaffID)
			}
			uc.logger.Error("GetAvailableSlots: failed to get staff id=%s: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}

		if !staff.Active || staff.MerchantID != req.MerchantID || staff.LocationID != req.LocationID {
			return nil, fmt.Errorf("%w: id=%s", ErrStaffNotFound, *req.StaffID)
		}

		return []*domain.Staff{staff}, nil
	}

	staffList, err := uc.rosterRepo.ListActiveByLocation(ctx, req.MerchantID, req.LocationID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	if len(staffList) == 0 {
		uc.logger.Warn("GetAvailableSlots: no staff configured at location=%s", req.LocationID)
		return nil, ErrNoStaffConfigured
	}

	return staffList, nil
}

// loadPolicy загружает политику мерчанта, подставляя дефолты при её отсутствии
func (uc *UseCase) loadPolicy(ctx context.Context, merchantID string) (*domain.BookingPolicy, error) {
	policy, err := uc.policyRepo.GetByMerchant(ctx, merchantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return domain.DefaultBookingPolicy(merchantID), nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get policy for merchant=%s: %v", merchantID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	return policy, nil
}

// emptyResponse ответ для закрытого дня
func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:           req.Date,
		LocationID:     req.LocationID,
		Slots:          []Slot{},
		AvailableSlots: []types.TimeString{},
	}
}
