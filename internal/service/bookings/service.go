package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/heya-pos/HEYA-BookingService/internal/domain"
	bookingRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/booking"
	"github.com/heya-pos/HEYA-BookingService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований и операционных переходов статуса.
// Создание и отмена идут через use cases: там транзакции и политика.
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Бронирование другого мерчанта не отдаем: для вызывающего его не существует.
func (s *Service) GetByID(ctx context.Context, merchantID, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for merchant=%s", id, merchantID)

	booking, err := s.fetchOwned(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента мерчанта
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: merchant=%s, customer=%s, status=%v",
		req.MerchantID, req.CustomerID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidStatus)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomer(ctx, req.MerchantID, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%s: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%s", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetLocationBookings получает бронирования локации с гибкой фильтрацией:
// по мастеру, периоду, статусу и включению неактивных бронирований.
// Основной запрос календаря мерчанта.
func (s *Service) GetLocationBookings(ctx context.Context, req *models.GetLocationBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetLocationBookings: merchant=%s, location=%s, staff=%v, includeInactive=%t",
		req.MerchantID, req.LocationID, req.StaffID, req.IncludeInactive)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetLocationBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	bookings, err := s.bookingRepo.GetByLocationWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetLocationBookings: repository error for location=%s: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: GetLocationBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetLocationBookings: fetched %d bookings for location=%s", len(bookings), req.LocationID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus выполняет операционный переход статуса жизненного цикла:
// подтверждение, начало обслуживания, завершение, no-show.
// Отмена сюда не входит, у неё собственный путь с проверкой политики.
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking=%s, merchant=%s, status=%s",
		req.BookingID, req.MerchantID, req.Status)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	booking, err := s.fetchOwned(ctx, req.MerchantID, req.BookingID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(booking.Status, newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking=%s",
			booking.Status, newStatus, req.BookingID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, req.BookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	booking.Status = newStatus
	s.logger.Info("UpdateStatus: booking=%s is now %s", req.BookingID, newStatus)

	return models.FromDomainBooking(booking), nil
}

// fetchOwned загружает бронирование и проверяет принадлежность мерчанту
func (s *Service) fetchOwned(ctx context.Context, merchantID, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("fetchOwned: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("fetchOwned: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if booking.MerchantID != merchantID {
		s.logger.Warn("fetchOwned: booking id=%s does not belong to merchant=%s", id, merchantID)
		return nil, ErrBookingNotFound
	}

	return booking, nil
}
