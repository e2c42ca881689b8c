package manage_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotguard"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// historyStatuses статусы, которые не занимают емкость, но ссылаются на слот
var historyStatuses = []domain.ReservationStatus{
	domain.StatusCompleted,
	domain.StatusCancelled,
	domain.StatusNoShow,
}

// UseCase use case для удаления, деактивации и активации слота
type UseCase struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	guard           SlotGuard
	tracker         *slots.Tracker
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, reservationRepo ReservationRepository, guard SlotGuard, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		guard:           guard,
		tracker:         slots.NewTracker(),
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Delete удаляет слот без активных бронирований
func (uc *UseCase) Delete(ctx context.Context, req *Request) (*Response, error) {
	resp := &Response{SlotID: req.SlotID, Action: ActionDelete}

	err := uc.execute(ctx, ActionDelete, req, func(txCtx context.Context, slot *domain.Slot) error {
		if err := uc.requireNoActive(txCtx, slot); err != nil {
			return err
		}

		history, err := uc.reservationRepo.CountBySlot(txCtx, slot.ID, historyStatuses)
		if err != nil {
			return storageError("count reservations", err)
		}
		if history > 0 {
			return fmt.Errorf("%w: slot id=%d, %d reservations", ErrSlotHasHistory, slot.ID, history)
		}

		if err := uc.slotRepo.Delete(txCtx, slot.ID); err != nil {
			return storageError("delete slot", err)
		}

		resp.Deleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Deactivate снимает с продажи слот без активных бронирований
func (uc *UseCase) Deactivate(ctx context.Context, req *Request) (*Response, error) {
	resp := &Response{SlotID: req.SlotID, Action: ActionDeactivate}

	err := uc.execute(ctx, ActionDeactivate, req, func(txCtx context.Context, slot *domain.Slot) error {
		if err := uc.requireNoActive(txCtx, slot); err != nil {
			return err
		}

		if slot.IsAvailable {
			if err := uc.slotRepo.UpdateAvailability(txCtx, slot.ID, false); err != nil {
				return storageError("deactivate slot", err)
			}
		}

		resp.IsAvailable = false
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Activate возвращает слот в продажу, если у него есть свободная емкость и он еще не начался
func (uc *UseCase) Activate(ctx context.Context, req *Request) (*Response, error) {
	resp := &Response{SlotID: req.SlotID, Action: ActionActivate}

	err := uc.execute(ctx, ActionActivate, req, func(txCtx context.Context, slot *domain.Slot) error {
		if slot.IsPast(uc.timeProvider.Now()) {
			return fmt.Errorf("%w: slot id=%d on %s at %s has already started",
				domain.ErrSlotUnavailable, slot.ID, slot.Date.Format(domain.DateFormat), slot.StartTime)
		}

		active, err := uc.reservationRepo.CountBySlot(txCtx, slot.ID, domain.ActiveStatuses)
		if err != nil {
			return storageError("count reservations", err)
		}

		if !uc.tracker.CanAccept(slot, active) {
			return fmt.Errorf("%w: slot id=%d is full (%d/%d)", domain.ErrSlotCapacityExceeded, slot.ID, active, slot.Capacity)
		}

		if !slot.IsAvailable {
			if err := uc.slotRepo.UpdateAvailability(txCtx, slot.ID, true); err != nil {
				return storageError("activate slot", err)
			}
		}

		resp.IsAvailable = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// execute выполняет действие над слотом под его блокировкой в транзакции
func (uc *UseCase) execute(ctx context.Context, action Action, req *Request, fn func(ctx context.Context, slot *domain.Slot) error) error {
	uc.logger.Info("ManageSlot: action=%s, slot=%d, business=%d", action, req.SlotID, req.BusinessID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ManageSlot: validation failed: %v", err)
		return err
	}

	// 2. Изменяем слот под блокировкой
	err := uc.guard.WithSlot(ctx, req.SlotID, func(txCtx context.Context) error {
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return fmt.Errorf("%w: slot id=%d", ErrSlotNotFound, req.SlotID)
			}
			return storageError("get slot", err)
		}

		if slot.BusinessID != req.BusinessID {
			return fmt.Errorf("%w: slot id=%d", ErrSlotNotFound, req.SlotID)
		}

		return fn(txCtx, slot)
	})

	if err != nil {
		switch {
		case txmanager.IsTransient(err), errors.Is(err, slotguard.ErrSlotBusy):
			uc.logger.Warn("ManageSlot: action=%s, slot id=%d: %v", action, req.SlotID, err)
			return fmt.Errorf("%w: slot id=%d", ErrSlotBusy, req.SlotID)
		case errors.Is(err, slotguard.ErrLockFailed):
			uc.logger.Error("ManageSlot: %v", err)
			return fmt.Errorf("%w: %v", ErrInternal, err)
		case errors.Is(err, ErrInternal):
			uc.logger.Error("ManageSlot: action=%s, slot id=%d: %v", action, req.SlotID, err)
			return err
		default:
			uc.logger.Warn("ManageSlot: action=%s, slot id=%d rejected: %v", action, req.SlotID, err)
			return err
		}
	}

	uc.logger.Info("ManageSlot: action=%s, slot id=%d done", action, req.SlotID)
	return nil
}

func (uc *UseCase) requireNoActive(ctx context.Context, slot *domain.Slot) error {
	active, err := uc.reservationRepo.CountBySlot(ctx, slot.ID, domain.ActiveStatuses)
	if err != nil {
		return storageError("count reservations", err)
	}
	if active > 0 {
		return fmt.Errorf("%w: slot id=%d has %d active reservations", domain.ErrSlotHasActiveReservations, slot.ID, active)
	}
	return nil
}

// storageError сохраняет признак конфликта сериализации, чтобы транзакцию можно было повторить
func storageError(op string, err error) error {
	if txmanager.IsTransient(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
