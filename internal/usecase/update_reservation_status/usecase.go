package update_reservation_status

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

// UseCase use case для подтверждения, завершения и отметки неявки
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

// Execute выполняет переход статуса бронирования
// При неявке слот возвращается в продажу в той же транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.ReservationResponse, error) {
	uc.logger.Info("UpdateReservationStatus: reservation=%d, business=%d, status=%s", req.ReservationID, req.BusinessID, req.Status)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservationStatus: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование и проверяем принадлежность бизнесу
	current, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("UpdateReservationStatus: reservation id=%d not found", req.ReservationID)
			return nil, fmt.Errorf("%w: reservation id=%d", ErrReservationNotFound, req.ReservationID)
		}
		uc.logger.Error("UpdateReservationStatus: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	if current.BusinessID != req.BusinessID {
		uc.logger.Warn("UpdateReservationStatus: reservation id=%d belongs to business id=%d, requested by business id=%d",
			req.ReservationID, current.BusinessID, req.BusinessID)
		return nil, fmt.Errorf("%w: reservation id=%d", ErrReservationNotFound, req.ReservationID)
	}

	// 3. Выполняем переход
	var (
		result   *domain.Reservation
		previous domain.ReservationStatus
	)
	transition := func(txCtx context.Context) error {
		now := uc.timeProvider.Now()

		reservation, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			return storageError("get reservation", err)
		}
		previous = reservation.Status

		if err := reservation.TransitionTo(req.Status, now); err != nil {
			return fmt.Errorf("reservation id=%d: %w", reservation.ID, err)
		}

		if err := uc.reservationRepo.UpdateStatus(txCtx, reservation); err != nil {
			return storageError("update reservation status", err)
		}

		// Только неявка освобождает единицу емкости, завершенное бронирование слот не возвращает
		if reservation.IsSlotBased() && reservation.Status == domain.StatusNoShow {
			if err := uc.reopenSlot(txCtx, *reservation.SlotID); err != nil {
				return err
			}
		}

		result = reservation
		return nil
	}

	if current.IsSlotBased() {
		err = uc.guard.WithSlot(ctx, *current.SlotID, transition)
	} else {
		err = uc.guard.Run(ctx, transition)
	}
	if err != nil {
		return nil, uc.mapError(err, req.ReservationID)
	}

	uc.metrics.ObserveReservation("status_changed")
	uc.logger.Info("UpdateReservationStatus: reservation id=%d %s -> %s", result.ID, previous, result.Status)

	// 4. Уведомляем подписчиков после фиксации транзакции
	if err := uc.publisher.PublishJSON(events.EventReservationStatusChanged, events.NewStatusChangedPayload(result, previous)); err != nil {
		uc.logger.Warn("UpdateReservationStatus: failed to publish event for reservation id=%d: %v", result.ID, err)
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
		uc.logger.Info("UpdateReservationStatus: slot id=%d reopened (%d/%d)", slot.ID, active, slot.Capacity)
	}

	return nil
}

// mapError приводит ошибки блокировки и транзакции к ошибкам use case
func (uc *UseCase) mapError(err error, reservationID int64) error {
	switch {
	case txmanager.IsTransient(err), errors.Is(err, slotguard.ErrSlotBusy):
		uc.logger.Warn("UpdateReservationStatus: reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: reservation id=%d", ErrSlotBusy, reservationID)
	case errors.Is(err, slotguard.ErrLockFailed):
		uc.logger.Error("UpdateReservationStatus: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("UpdateReservationStatus: reservation id=%d: %v", reservationID, err)
		return err
	default:
		uc.logger.Warn("UpdateReservationStatus: reservation id=%d rejected: %v", reservationID, err)
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
