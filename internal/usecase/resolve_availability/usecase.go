package resolve_availability

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
)

// UseCase use case разрешения доступности персонала.
// Отвечает на вопрос: какие мастера на смене И свободны в запрошенном окне,
// и кого выбрать для "next available" запроса.
type UseCase struct {
	bookingRepo BookingRepository
	rosterRepo  RosterRepository
	policyRepo  PolicyRepository
	catalog     CatalogServiceClient
	logger      Logger
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
		bookingRepo: bookingRepo,
		rosterRepo:  rosterRepo,
		policyRepo:  policyRepo,
		catalog:     catalog,
		logger:      logger,
	}
}

// Execute выполняет разрешение доступности.
// Если в контексте есть активная транзакция, все чтения идут через неё —
// оркестратор создания бронирования вызывает Execute внутри сериализуемой
// транзакции, и дневные бронирования блокируются FOR UPDATE.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Report, error) {
	uc.logger.Info("ResolveAvailability: merchant=%s, location=%s, services=%d, start=%s, staff=%v",
		req.MerchantID, req.LocationID, len(req.ServiceIDs), req.StartTime.Format(domain.DateFormat+" "+domain.TimeFormat), req.RequestedStaffID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Окно занятости: конец всегда производное от суммы длительностей услуг
	totalDuration, padBefore, padAfter, err := uc.resolveServices(ctx, req)
	if err != nil {
		return nil, err
	}

	window := domain.NewAvailabilityWindow(req.StartTime, totalDuration)

	// 3. Набор кандидатов: конкретный мастер или все активные на локации
	candidates, report, err := uc.collectStaff(ctx, req, window)
	if err != nil {
		return nil, err
	}
	if report != nil {
		// Запрошенный мастер не существует — отчёт уже собран
		return report, nil
	}

	// 4. Загружаем расписания, отсутствия и дневные бронирования батчами
	staffIDs := make([]string, len(candidates))
	for i, s := range candidates {
		staffIDs[i] = s.ID
	}

	schedules, err := uc.rosterRepo.GetWeeklySchedules(ctx, staffIDs)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to load schedules: %v", err)
		return nil, fmt.Errorf("%w: failed to load schedules: %v", ErrInternal, err)
	}

	dayStart := truncateToDay(window.Start)
	timeOff, err := uc.rosterRepo.ListTimeOff(ctx, staffIDs, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to load time off: %v", err)
		return nil, fmt.Errorf("%w: failed to load time off: %v", ErrInternal, err)
	}

	dayBookings, err := uc.bookingRepo.GetOccupyingByLocationAndDate(ctx, req.MerchantID, req.LocationID, window.Start)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to load bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
	}
	bookingsByStaff := groupBookingsByStaff(dayBookings)

	// 5. Оцениваем каждого кандидата независимо
	result := &Report{Window: window}

	for _, staff := range candidates {
		sc := staffContext{
			staff:       staff,
			schedule:    schedules[staff.ID],
			timeOff:     timeOff[staff.ID],
			dayBookings: bookingsByStaff[staff.ID],
		}

		available, unavailable := evaluateStaff(sc, window, padBefore, padAfter)
		if available != nil {
			result.Available = append(result.Available, *available)
		} else {
			result.Unavailable = append(result.Unavailable, *unavailable)
		}
	}

	// 6. Детерминированный порядок свободных мастеров
	sortCandidates(result.Available)

	uc.logger.Info("ResolveAvailability: %d available, %d unavailable for merchant=%s at %s",
		len(result.Available), len(result.Unavailable), req.MerchantID, window.Start.Format(domain.TimeFormat))

	return result, nil
}

// resolveServices получает услуги из каталога и считает суммарную длительность
// и эффективный паддинг: paddingBefore первой услуги, paddingAfter последней,
// отсутствующие значения замещаются merchant-level буфером.
func (uc *UseCase) resolveServices(ctx context.Context, req *Request) (totalDuration, padBefore, padAfter int, err error) {
	policy, err := uc.loadPolicy(ctx, req.MerchantID)
	if err != nil {
		return 0, 0, 0, err
	}

	var firstBefore, lastAfter *int

	for i, serviceID := range req.ServiceIDs {
		service, err := uc.catalog.GetService(ctx, req.MerchantID, serviceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("ResolveAvailability: service id=%s not found", serviceID)
				return 0, 0, 0, fmt.Errorf("%w: id=%s", ErrServiceNotFound, serviceID)
			}
			uc.logger.Error("ResolveAvailability: failed to get service id=%s: %v", serviceID, err)
			return 0, 0, 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if service.DurationMinutes <= 0 || service.DurationMinutes > domain.MaxServiceDurationMinutes {
			return 0, 0, 0, fmt.Errorf("%w: service id=%s has invalid duration %d", ErrInvalidInput, serviceID, service.DurationMinutes)
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

// collectStaff возвращает набор мастеров для оценки.
// Для несуществующего запрошенного мастера сразу собирает отчёт:
// это категориальная недоступность, а не конфликт расписания.
func (uc *UseCase) collectStaff(ctx context.Context, req *Request, window domain.AvailabilityWindow) ([]*domain.Staff, *Report, error) {
	if req.RequestedStaffID != nil {
		staff, err := uc.rosterRepo.GetStaff(ctx, *req.RequestedStaffID)
		if err != nil {
			if errors.Is(err, rosterRepo.ErrStaffNotFound) {
				uc.logger.Warn("ResolveAvailability: staff id=%s not found", *req.RequestedStaffID)
				return nil, uc.staffNotFoundReport(window, *req.RequestedStaffID), nil
			}
			uc.logger.Error("ResolveAvailability: failed to get staff id=%s: %v", *req.RequestedStaffID, err)
			return nil, nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}

		// Неактивный мастер или мастер другой локации не бронируем
		if !staff.Active || staff.MerchantID != req.MerchantID || staff.LocationID != req.LocationID {
			uc.logger.Warn("ResolveAvailability: staff id=%s is not bookable at location=%s", staff.ID, req.LocationID)
			return nil, uc.staffNotFoundReport(window, staff.ID), nil
		}

		return []*domain.Staff{staff}, nil, nil
	}

	staffList, err := uc.rosterRepo.ListActiveByLocation(ctx, req.MerchantID, req.LocationID)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to list staff: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	if len(staffList) == 0 {
		uc.logger.Warn("ResolveAvailability: no staff configured at location=%s", req.LocationID)
		return nil, nil, ErrNoStaffConfigured
	}

	return staffList, nil, nil
}

// staffNotFoundReport отчёт для несуществующего запрошенного мастера
func (uc *UseCase) staffNotFoundReport(window domain.AvailabilityWindow, staffID string) *Report {
	return &Report{
		Window: window,
		Unavailable: []UnavailableStaff{{
			StaffID: staffID,
			Reason:  ReasonStaffNotFound,
			Message: "Staff member does not exist",
		}},
	}
}

// loadPolicy загружает политику мерчанта, подставляя дефолты при её отсутствии
func (uc *UseCase) loadPolicy(ctx context.Context, merchantID string) (*domain.BookingPolicy, error) {
	policy, err := uc.policyRepo.GetByMerchant(ctx, merchantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return domain.DefaultBookingPolicy(merchantID), nil
		}
		uc.logger.Error("ResolveAvailability: failed to get policy for merchant=%s: %v", merchantID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	return policy, nil
}

// truncateToDay обнуляет время, оставляя только дату
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
