package request_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	policyRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/policy"
	catalogClient "github.com/heya-pos/HEYA-BookingService/internal/integrations/catalogservice"
	"github.com/heya-pos/HEYA-BookingService/internal/policyguard"
	"github.com/heya-pos/HEYA-BookingService/internal/usecase/resolve_availability"
)

// UseCase use case для создания бронирования.
// Разрешение доступности, выбор мастера и вставка выполняются в одной
// сериализуемой транзакции: два конкурентных запроса на пересекающийся
// слот не смогут оба закоммититься.
type UseCase struct {
	bookingRepo  BookingRepository
	policyRepo   PolicyRepository
	resolver     AvailabilityResolver
	catalog      CatalogServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	policyRepo PolicyRepository,
	resolver AvailabilityResolver,
	catalog CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		policyRepo:   policyRepo,
		resolver:     resolver,
		catalog:      catalog,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestBooking: merchant=%s, customer=%s, location=%s, services=%d, start=%s, override=%t",
		req.MerchantID, req.CustomerID, req.LocationID, len(req.ServiceIDs),
		req.StartTime.Format(domain.DateFormat+" "+domain.TimeFormat), req.IsOverride)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование локации
	if _, err := uc.catalog.GetLocation(ctx, req.MerchantID, req.LocationID); err != nil {
		if errors.Is(err, catalogClient.ErrLocationNotFound) {
			uc.logger.Warn("RequestBooking: location id=%s not found", req.LocationID)
			return nil, fmt.Errorf("%w: id=%s", ErrLocationNotFound, req.LocationID)
		}
		uc.logger.Error("RequestBooking: failed to get location id=%s: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	// 4. Получаем услуги: длительности, цены и имена для денормализации
	services, totalDuration, totalPrice, err := uc.resolveServices(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Темпоральная политика мерчанта.
	// Lead time при override пропускается: мерчант осознанно создает
	// бронирование "прямо сейчас" для walk-in клиента.
	policy, err := uc.loadPolicy(ctx, req.MerchantID)
	if err != nil {
		return nil, err
	}

	if !req.IsOverride {
		if err := policyguard.ValidateCreation(now, req.StartTime, policy); err != nil {
			uc.logger.Warn("RequestBooking: lead time check failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrLeadTimeTooShort, err)
		}
	}

	padBefore, padAfter := effectivePaddingForServices(services, policy)

	var result *domain.Booking

	// 6. Разрешение доступности, выбор мастера и вставка в одной
	// сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		report, err := uc.resolver.Execute(txCtx, &resolve_availability.Request{
			MerchantID:       req.MerchantID,
			LocationID:       req.LocationID,
			ServiceIDs:       req.ServiceIDs,
			StartTime:        req.StartTime,
			RequestedStaffID: req.RequestedStaffID,
		})
		if err != nil {
			if errors.Is(err, resolve_availability.ErrNoStaffConfigured) {
				return ErrNoStaffConfigured
			}
			if errors.Is(err, resolve_availability.ErrServiceNotFound) {
				return fmt.Errorf("%w: %v", ErrServiceNotFound, err)
			}
			if errors.Is(err, resolve_availability.ErrInvalidInput) {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			uc.logger.Error("RequestBooking: availability resolution failed: %v", err)
			return fmt.Errorf("%w: availability resolution failed: %v", ErrInternal, err)
		}

		// 6.1. Выбор конкретного мастера. Плейсхолдеры в запись не попадают:
		// к моменту вставки staffID всегда настоящий ID.
		staffID, err := uc.pickStaff(req, report)
		if err != nil {
			return err
		}

		// 6.2. Финальная проверка конфликтов в той же транзакции.
		// Строки конкурентов заблокированы FOR UPDATE до коммита.
		window := report.Window.Padded(padBefore, padAfter)
		conflicts, err := uc.bookingRepo.FindConflicts(txCtx, staffID, window.Start, window.End, nil)
		if err != nil {
			uc.logger.Error("RequestBooking: conflict check failed: %v", err)
			return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
		}

		if len(conflicts) > 0 && !req.IsOverride {
			uc.logger.Warn("RequestBooking: conflict with booking id=%s for staff=%s",
				conflicts[0].ID, staffID)
			return fmt.Errorf("%w: staff is busy until %s",
				ErrBookingConflict, conflicts[0].EndTime.Format(domain.ClockFormat))
		}

		booking := &domain.Booking{
			MerchantID:           req.MerchantID,
			CustomerID:           req.CustomerID,
			LocationID:           req.LocationID,
			StaffID:              staffID,
			StartTime:            report.Window.Start,
			EndTime:              report.Window.End,
			DurationMinutes:      totalDuration,
			PaddingBeforeMinutes: padBefore,
			PaddingAfterMinutes:  padAfter,
			Status:               domain.StatusPending,
			ServiceIDs:           req.ServiceIDs,
			ServiceNames:         serviceNames(services),
			TotalPrice:           totalPrice,
			Notes:                req.Notes,
		}
		if req.IsOverride {
			booking.OverrideReason = req.OverrideReason
		}

		result, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("RequestBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RequestBooking: created booking id=%s, staff=%s, start=%s",
		result.ID, result.StaffID, result.StartTime.Format(domain.TimeFormat))

	return &Response{Booking: result}, nil
}

// pickStaff выбирает конкретного мастера из отчёта резолвера.
// Для запрошенного мастера причина недоступности транслируется в ошибку;
// override обходит конфликт и отсутствие смены, но не несуществующего мастера.
func (uc *UseCase) pickStaff(req *Request, report *resolve_availability.Report) (string, error) {
	if req.RequestedStaffID == nil {
		staffID, ok := report.NextAvailable()
		if !ok {
			uc.logger.Warn("RequestBooking: no staff available at location=%s for %s",
				req.LocationID, report.Window.Start.Format(domain.TimeFormat))
			return "", ErrNoAvailability
		}
		return staffID, nil
	}

	requestedID := *req.RequestedStaffID
	if report.IsAvailable(requestedID) {
		return requestedID, nil
	}

	entry, found := report.FindUnavailable(requestedID)
	if !found {
		// Резолвер обязан отнести запрошенного мастера к одной из групп
		return "", fmt.Errorf("%w: staff id=%s missing from availability report", ErrInternal, requestedID)
	}

	switch entry.Reason {
	case resolve_availability.ReasonStaffNotFound:
		return "", fmt.Errorf("%w: id=%s", ErrStaffNotFound, requestedID)
	case resolve_availability.ReasonNotRostered:
		if req.IsOverride {
			return requestedID, nil
		}
		return "", fmt.Errorf("%w: %s", ErrStaffNotRostered, entry.Message)
	case resolve_availability.ReasonConflict:
		if req.IsOverride {
			return requestedID, nil
		}
		return "", fmt.Errorf("%w: %s", ErrBookingConflict, entry.Message)
	default:
		return "", fmt.Errorf("%w: unknown unavailability reason %q", ErrInternal, entry.Reason)
	}
}

// resolveServices загружает услуги из каталога, сохраняя порядок запроса
func (uc *UseCase) resolveServices(ctx context.Context, req *Request) ([]*catalogClient.Service, int, float64, error) {
	services := make([]*catalogClient.Service, 0, len(req.ServiceIDs))
	var totalDuration int
	var totalPrice float64

	for _, serviceID := range req.ServiceIDs {
		service, err := uc.catalog.GetService(ctx, req.MerchantID, serviceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("RequestBooking: service id=%s not found", serviceID)
				return nil, 0, 0, fmt.Errorf("%w: id=%s", ErrServiceNotFound, serviceID)
			}
			uc.logger.Error("RequestBooking: failed to get service id=%s: %v", serviceID, err)
			return nil, 0, 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if !service.Active {
			uc.logger.Warn("RequestBooking: service id=%s is inactive", serviceID)
			return nil, 0, 0, fmt.Errorf("%w: id=%s", ErrServiceNotFound, serviceID)
		}

		if service.DurationMinutes <= 0 || service.DurationMinutes > domain.MaxServiceDurationMinutes {
			return nil, 0, 0, fmt.Errorf("%w: service id=%s has invalid duration %d",
				ErrInvalidInput, serviceID, service.DurationMinutes)
		}

		services = append(services, service)
		totalDuration += service.DurationMinutes
		if service.Price != nil {
			totalPrice += *service.Price
		}
	}

	return services, totalDuration, totalPrice, nil
}

// loadPolicy загружает политику мерчанта, подставляя дефолты при её отсутствии
func (uc *UseCase) loadPolicy(ctx context.Context, merchantID string) (*domain.BookingPolicy, error) {
	policy, err := uc.policyRepo.GetByMerchant(ctx, merchantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return domain.DefaultBookingPolicy(merchantID), nil
		}
		uc.logger.Error("RequestBooking: failed to get policy for merchant=%s: %v", merchantID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	return policy, nil
}

// effectivePaddingForServices паддинг цепочки услуг: before первой, after
// последней, отсутствующие значения замещаются merchant-level буфером
func effectivePaddingForServices(services []*catalogClient.Service, policy *domain.BookingPolicy) (before, after int) {
	var first, last *int
	if len(services) > 0 {
		first = services[0].PaddingBeforeMinutes
		last = services[len(services)-1].PaddingAfterMinutes
	}
	return policyguard.EffectivePadding(first, last, policy)
}

func serviceNames(services []*catalogClient.Service) []string {
	names := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
	}
	return names
}
