package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	policyRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/policy"
	"github.com/heya-pos/HEYA-BookingService/internal/service/policy/models"
)

// Service сервис для чтения и обновления политики бронирования мерчанта
type Service struct {
	policyRepo PolicyRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(policyRepo PolicyRepository, logger Logger) *Service {
	return &Service{
		policyRepo: policyRepo,
		logger:     logger,
	}
}

// Get возвращает политику мерчанта.
// Мерчант без сохранённой политики получает дефолты, не ошибку.
func (s *Service) Get(ctx context.Context, merchantID string) (*models.PolicyResponse, error) {
	s.logger.Info("GetPolicy: merchant=%s", merchantID)

	if merchantID == "" {
		return nil, fmt.Errorf("%w: merchantID is required", ErrInvalidInput)
	}

	policy, err := s.policyRepo.GetByMerchant(ctx, merchantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Info("GetPolicy: merchant=%s has no stored policy, using defaults", merchantID)
			return models.FromDomainPolicy(domain.DefaultBookingPolicy(merchantID)), nil
		}
		s.logger.Error("GetPolicy: repository error for merchant=%s: %v", merchantID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(policy), nil
}

// Update частично обновляет политику мерчанта и возвращает результат.
// Первое обновление мерчанта без политики стартует с дефолтов.
func (s *Service) Update(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("UpdatePolicy: merchant=%s", req.MerchantID)

	if req.MerchantID == "" {
		return nil, fmt.Errorf("%w: merchantID is required", ErrInvalidInput)
	}

	current, err := s.policyRepo.GetByMerchant(ctx, req.MerchantID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("UpdatePolicy: repository error for merchant=%s: %v", req.MerchantID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		current = domain.DefaultBookingPolicy(req.MerchantID)
	}

	applyUpdate(current, req)

	if err := validatePolicy(current); err != nil {
		s.logger.Warn("UpdatePolicy: validation failed for merchant=%s: %v", req.MerchantID, err)
		return nil, err
	}

	updated, err := s.policyRepo.Upsert(ctx, current)
	if err != nil {
		s.logger.Error("UpdatePolicy: failed to upsert policy for merchant=%s: %v", req.MerchantID, err)
		return nil, fmt.Errorf("%w: Update - upsert error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdatePolicy: merchant=%s updated: advance=%dh, cancellation=%dh, buffer=%dm",
		req.MerchantID, updated.AdvanceBookingHours, updated.CancellationHours, updated.BookingBufferMinutes)

	return models.FromDomainPolicy(updated), nil
}

// applyUpdate накладывает непустые поля запроса на политику
func applyUpdate(p *domain.BookingPolicy, req *models.UpdatePolicyRequest) {
	if req.AdvanceBookingHours != nil {
		p.AdvanceBookingHours = *req.AdvanceBookingHours
	}
	if req.CancellationHours != nil {
		p.CancellationHours = *req.CancellationHours
	}
	if req.BookingBufferMinutes != nil {
		p.BookingBufferMinutes = *req.BookingBufferMinutes
	}
	if req.AllowUnassignedBookings != nil {
		p.AllowUnassignedBookings = *req.AllowUnassignedBookings
	}
	if req.ShowUnassignedColumn != nil {
		p.ShowUnassignedColumn = *req.ShowUnassignedColumn
	}
}

// validatePolicy проверяет диапазоны значений политики
func validatePolicy(p *domain.BookingPolicy) error {
	if p.AdvanceBookingHours < domain.MinAdvanceBookingHours || p.AdvanceBookingHours > domain.MaxAdvanceBookingHours {
		return fmt.Errorf("%w: advanceBookingHours must be between %d and %d",
			ErrValueOutOfRange, domain.MinAdvanceBookingHours, domain.MaxAdvanceBookingHours)
	}

	if p.CancellationHours < domain.MinCancellationHours || p.CancellationHours > domain.MaxCancellationHours {
		return fmt.Errorf("%w: cancellationHours must be between %d and %d",
			ErrValueOutOfRange, domain.MinCancellationHours, domain.MaxCancellationHours)
	}

	if p.BookingBufferMinutes < domain.MinBookingBufferMinutes || p.BookingBufferMinutes > domain.MaxBookingBufferMinutes {
		return fmt.Errorf("%w: bookingBufferMinutes must be between %d and %d",
			ErrValueOutOfRange, domain.MinBookingBufferMinutes, domain.MaxBookingBufferMinutes)
	}

	return nil
}
