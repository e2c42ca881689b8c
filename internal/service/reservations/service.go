package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// Service сервис чтения бронирований
type Service struct {
	reservationRepo ReservationRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(reservationRepo ReservationRepository, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только своё бронирование, businessID != nil означает запрос от имени бизнеса
func (s *Service) GetByID(ctx context.Context, id int64, customerID int64, businessID *int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for customer=%d", id, customerID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if businessID != nil {
		if reservation.BusinessID != *businessID {
			s.logger.Warn("GetByID: reservation id=%d does not belong to business=%d", id, *businessID)
			return nil, ErrReservationNotFound
		}
	} else if !reservation.IsOwnedBy(customerID) {
		s.logger.Warn("GetByID: customer=%d is not the owner of reservation id=%d", customerID, id)
		return nil, fmt.Errorf("%w: reservation id=%d", domain.ErrReservationNotOwned, id)
	}

	return models.FromDomainReservation(reservation), nil
}

// ListByCustomer получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) ListByCustomer(ctx context.Context, req *models.ListCustomerReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByCustomer: fetching reservations for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	customerID := req.CustomerID
	filter := domain.ReservationsFilter{CustomerID: &customerID}
	if req.Status != nil {
		status, err := domain.ParseReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByCustomer: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Statuses = []domain.ReservationStatus{status}
	}

	list, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByCustomer: fetched %d reservations for customer=%d", len(list), req.CustomerID)
	return models.FromDomainReservationList(list), nil
}

// ListByBusiness получает бронирования бизнеса с фильтрацией по слоту, периоду и статусу
// Права доступа к бизнесу проверяются на стороне коллаборатора авторизации
func (s *Service) ListByBusiness(ctx context.Context, req *models.ListBusinessReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByBusiness: fetching reservations for business=%d", req.BusinessID)

	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate before startDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByBusiness: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListByBusiness: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByBusiness: fetched %d reservations for business=%d", len(list), req.BusinessID)
	return models.FromDomainReservationList(list), nil
}
