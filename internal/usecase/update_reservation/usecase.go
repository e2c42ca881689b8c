package update_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// UseCase use case для изменения бронирования, пока оно в статусе PENDING
type UseCase struct {
	reservationRepo ReservationRepository
	tx              TransactionRunner
	config          Config
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(reservationRepo ReservationRepository, tx TransactionRunner, config Config, logger Logger) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		tx:              tx,
		config:          config,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case изменения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.ReservationResponse, error) {
	uc.logger.Info("UpdateReservation: reservation=%d, customer=%d, reschedule=%t", req.ReservationID, req.CustomerID, req.HasReschedule())

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Изменяем бронирование в транзакции
	var result *domain.Reservation
	err := uc.tx.Run(ctx, func(txCtx context.Context) error {
		now := uc.timeProvider.Now()

		reservation, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return fmt.Errorf("%w: reservation id=%d", ErrReservationNotFound, req.ReservationID)
			}
			return storageError("get reservation", err)
		}

		if !reservation.IsOwnedBy(req.CustomerID) {
			return fmt.Errorf("%w: reservation id=%d", domain.ErrReservationNotOwned, req.ReservationID)
		}

		// 2.1. Перенос допускается только для бронирований по запросу
		if req.HasReschedule() {
			date := reservation.ReservationDate
			if req.Date != nil {
				date = dateOnly(*req.Date)
			}
			startTime := reservation.ReservationTime
			if req.StartTime != nil {
				startTime = *req.StartTime
			}

			if err := reservation.Reschedule(date, startTime, now); err != nil {
				return err
			}
			if err := domain.ValidateBookingTime(reservation.StartsAt(), now); err != nil {
				return err
			}
			if err := domain.ValidateLeadDays(reservation.ReservationDate, now, uc.config.LeadDays); err != nil {
				return err
			}
		}

		// 2.2. Данные клиента
		details := domain.CustomerDetails{
			Name:         req.CustomerName,
			Phone:        req.CustomerPhone,
			RequestNotes: req.RequestNotes,
		}
		if err := reservation.UpdateDetails(details, now); err != nil {
			return err
		}

		if err := uc.reservationRepo.Update(txCtx, reservation); err != nil {
			return storageError("update reservation", err)
		}

		result = reservation
		return nil
	})

	if err != nil {
		switch {
		case txmanager.IsTransient(err):
			uc.logger.Error("UpdateReservation: reservation id=%d conflict persisted after retry: %v", req.ReservationID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		case errors.Is(err, ErrInternal):
			uc.logger.Error("UpdateReservation: reservation id=%d: %v", req.ReservationID, err)
		default:
			uc.logger.Warn("UpdateReservation: reservation id=%d rejected: %v", req.ReservationID, err)
		}
		return nil, err
	}

	uc.logger.Info("UpdateReservation: reservation id=%d updated", result.ID)
	return models.FromDomainReservation(result), nil
}

// storageError сохраняет признак конфликта сериализации, чтобы транзакцию можно было повторить
func storageError(op string, err error) error {
	if txmanager.IsTransient(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
