package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	bookingRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/booking"
	policyRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/policy"
	"github.com/heya-pos/HEYA-BookingService/internal/policyguard"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	policyRepo   PolicyRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, policyRepo PolicyRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		policyRepo:   policyRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет отмену бронирования.
// Отмена уже отменённого бронирования идемпотентна: успех без изменений.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: merchant=%s, booking=%s, override=%t",
		req.MerchantID, req.BookingID, req.IsOverride)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking id=%s not found", req.BookingID)
			return nil, fmt.Errorf("%w: id=%s", ErrBookingNotFound, req.BookingID)
		}
		uc.logger.Error("CancelBooking: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// Чужое бронирование для мерчанта не существует
	if booking.MerchantID != req.MerchantID {
		uc.logger.Warn("CancelBooking: booking id=%s does not belong to merchant=%s",
			req.BookingID, req.MerchantID)
		return nil, fmt.Errorf("%w: id=%s", ErrBookingNotFound, req.BookingID)
	}

	if booking.IsCancelled() {
		uc.logger.Info("CancelBooking: booking id=%s already cancelled", req.BookingID)
		return &Response{Booking: booking, AlreadyCancelled: true}, nil
	}

	if !booking.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: booking id=%s in status %s cannot be cancelled",
			req.BookingID, booking.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotCancel, booking.Status)
	}

	policy, err := uc.loadPolicy(ctx, req.MerchantID)
	if err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := policyguard.ValidateCancellation(now, booking.StartTime, policy, req.IsOverride); err != nil {
		uc.logger.Warn("CancelBooking: notice check failed for booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrNoticeTooShort, err)
	}

	if err := uc.bookingRepo.Cancel(ctx, req.BookingID, req.Reason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: id=%s", ErrBookingNotFound, req.BookingID)
		}
		uc.logger.Error("CancelBooking: failed to cancel booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCancelled
	booking.CancellationReason = &req.Reason
	cancelledAt := now
	booking.CancelledAt = &cancelledAt

	uc.logger.Info("CancelBooking: cancelled booking id=%s", req.BookingID)

	return &Response{Booking: booking}, nil
}

// loadPolicy загружает политику мерчанта, подставляя дефолты при её отсутствии
func (uc *UseCase) loadPolicy(ctx context.Context, merchantID string) (*domain.BookingPolicy, error) {
	policy, err := uc.policyRepo.GetByMerchant(ctx, merchantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return domain.DefaultBookingPolicy(merchantID), nil
		}
		uc.logger.Error("CancelBooking: failed to get policy for merchant=%s: %v", merchantID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	return policy, nil
}
