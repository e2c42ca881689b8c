package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/events"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotguard"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// UseCase use case для отмены бронирования клиентом
type UseCase struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	guard           SlotGuard
	tracker         *slots.Tracker
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	guard SlotGuard,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		guard:           guard,
		tracker:         slots.NewTracker(),
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case отмены бронирования
// Переход в CANCELLED и возврат слота в продажу выполняются под блокировкой слота в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.ReservationResponse, error) {
	uc.logger.Info("CancelReservation: reservation=%d, customer=%d", req.ReservationID, req.CustomerID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование, чтобы узнать слот и проверить владельца до изменений
	current, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ReservationID)
			return nil, fmt.Errorf("%w: reservation id=%d", ErrReservationNotFound, req.ReservationID)
		}
		uc.logger.Error("CancelReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	if !current.IsOwnedBy(req.CustomerID) {
		uc.logger.Warn("CancelReservation: reservation id=%d is not owned by customer id=%d", req.ReservationID, req.CustomerID)
		return nil, fmt.Errorf("%w: reservation id=%d", domain.ErrReservationNotOwned, req.ReservationID)
	}

	// 3. Отменяем бронирование
	var (
		result   *domain.Reservation
		previous domain.ReservationStatus
	)
	cancel := func(txCtx context.Context) error {
		now := uc.timeProvider.Now()

		// 3.1. Перечитываем бронирование внутри транзакции
		reservation, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			return storageError("get reservation", err)
		}
		previous = reservation.Status

		// 3.2. Проверка статуса и дедлайна отмены
		if err := reservation.Cancel(req.Reason, now); err != nil {
			return fmt.Errorf("reservation id=%d: %w", reservation.ID, err)
		}

		if err := uc.reservationRepo.UpdateStatus(txCtx, reservation); err != nil {
			return storageError("update reservation status", err)
		}

		// 3.3. Пересчитываем активные бронирования после перехода и возвращаем слот в продажу
		if reservation.IsSlotBased() {
			if err := uc.reopenSlot(txCtx, *reservation.SlotID); err != nil {
				return err
			}
		}

		result = reservation
		return nil
	}

	if current.IsSlotBased() {
		err = uc.guard.WithSlot(ctx, *current.SlotID, cancel)
	} else {
		err = uc.guard.Run(ctx, cancel)
	}
	if err != nil {
		return nil, uc.mapError(err, req.ReservationID)
	}

	uc.metrics.ObserveReservation("cancelled")
	uc.logger.Info("CancelReservation: reservation id=%d cancelled, previous status=%s", result.ID, previous)

	// 4. Уведомляем подписчиков после фиксации транзакции
	if err := uc.publisher.PublishJSON(events.EventReservationStatusChanged, events.NewStatusChangedPayload(result, previous)); err != nil {
		uc.logger.Warn("CancelReservation: failed to publish event for reservation id=%d: %v", result.ID, err)
	}

	return models.FromDomainReservation(result), nil
}

func (uc *UseCase) reopenSlot(ctx context.Context, slotID int64) error {
	active, err := uc.reservationRepo.CountBySlot(ctx, slotID, domain.ActiveStatuses)
	if err != nil {
		return storageError("count reservations", err)
	}

	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return storageError("get slot", err)
	}

	if uc.tracker.Reopen(slot, active) {
		if err := uc.slotRepo.UpdateAvailability(ctx, slot.ID, slot.IsAvailable); err != nil {
			return storageError("reopen slot", err)
		}
		uc.logger.Info("CancelReservation: slot id=%d reopened (%d/%d)", slot.ID, active, slot.Capacity)
	}

	return nil
}

// mapError приводит ошибки блокировки и транзакции к ошибкам use case
func (uc *UseCase) mapError(err error, reservationID int64) error {
	switch {
	case txmanager.IsTransient(err), errors.Is(err, slotguard.ErrSlotBusy):
		uc.logger.Warn("CancelReservation: reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: reservation id=%d", ErrSlotBusy, reservationID)
	case errors.Is(err, slotguard.ErrLockFailed):
		uc.logger.Error("CancelReservation: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CancelReservation: reservation id=%d: %v", reservationID, err)
		return err
	default:
		uc.logger.Warn("CancelReservation: reservation id=%d rejected: %v", reservationID, err)
		return err
	}
}

// storageError сохраняет признак конфликта сериализации, чтобы транзакцию можно было повторить
func storageError(op string, err error) error {
	if txmanager.IsTransient(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
