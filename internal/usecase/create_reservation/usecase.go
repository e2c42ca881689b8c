package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/events"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	menuClient "github.com/m04kA/SMC-ReservationService/internal/integrations/menuservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotguard"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	menuClient      MenuServiceClient
	guard           SlotGuard
	tracker         *slots.Tracker
	publisher       EventPublisher
	metrics         Metrics
	config          Config
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	menuClient MenuServiceClient,
	guard SlotGuard,
	publisher EventPublisher,
	metrics Metrics,
	config Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		menuClient:      menuClient,
		guard:           guard,
		tracker:         slots.NewTracker(),
		publisher:       publisher,
		metrics:         metrics,
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

// Execute выполняет use case создания бронирования
// Проверка емкости и запись бронирования выполняются под блокировкой слота в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.ReservationResponse, error) {
	uc.logger.Info("CreateReservation: customer=%d, service=%d, slot=%v, date=%s, time=%s",
		req.CustomerID, req.ServiceID, req.SlotID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу, её цена и длительность фиксируются в бронировании
	service, err := uc.menuClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, menuClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateReservation: service id=%d not found", req.ServiceID)
			return nil, fmt.Errorf("%w: service id=%d", ErrServiceNotFound, req.ServiceID)
		}
		uc.logger.Error("CreateReservation: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	details := domain.CustomerDetails{
		Name:         req.CustomerName,
		Phone:        req.CustomerPhone,
		RequestNotes: req.RequestNotes,
	}

	// 3. Бронирование слота или по запросу
	var result *domain.Reservation
	if req.SlotID != nil {
		result, err = uc.reserveSlot(ctx, req, service, details)
	} else {
		result, err = uc.reserveOnDemand(ctx, req, service, details)
	}
	if err != nil {
		if errors.Is(err, domain.ErrSlotCapacityExceeded) {
			uc.metrics.ObserveReservation("capacity_exceeded")
		}
		return nil, err
	}

	uc.metrics.ObserveReservation("created")
	uc.logger.Info("CreateReservation: created reservation id=%d, status=%s", result.ID, result.Status)

	// 4. Уведомляем подписчиков после фиксации транзакции
	if err := uc.publisher.PublishJSON(events.EventReservationStatusChanged, events.NewStatusChangedPayload(result, "")); err != nil {
		uc.logger.Warn("CreateReservation: failed to publish event for reservation id=%d: %v", result.ID, err)
	}

	return models.FromDomainReservation(result), nil
}

func (uc *UseCase) reserveSlot(ctx context.Context, req *Request, service *domain.Service, details domain.CustomerDetails) (*domain.Reservation, error) {
	slotID := *req.SlotID
	var result *domain.Reservation

	err := uc.guard.WithSlot(ctx, slotID, func(txCtx context.Context) error {
		// Время берется внутри попытки, чтобы повтор видел актуальный момент
		now := uc.timeProvider.Now()

		// 3.1. Получаем слот с блокировкой строки
		slot, err := uc.slotRepo.GetByID(txCtx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return fmt.Errorf("%w: slot id=%d", ErrSlotNotFound, slotID)
			}
			return storageError("get slot", err)
		}

		// 3.2. Совместимость услуги и слота, снимок цены и длительности
		reservation, err := domain.NewReservation(req.CustomerID, service, slot, slot.Date, slot.StartTime, details, now)
		if err != nil {
			return err
		}

		if err := domain.ValidateLeadDays(slot.Date, now, uc.config.LeadDays); err != nil {
			return err
		}

		// 3.3. Считаем активные бронирования и проверяем емкость
		active, err := uc.reservationRepo.CountBySlot(txCtx, slotID, domain.ActiveStatuses)
		if err != nil {
			return storageError("count reservations", err)
		}

		if !uc.tracker.CanAccept(slot, active) {
			return fmt.Errorf("%w: slot id=%d on %s at %s, %d/%d taken",
				domain.ErrSlotCapacityExceeded, slot.ID, slot.Date.Format(domain.DateFormat), slot.StartTime, active, slot.Capacity)
		}

		if !slot.IsAvailable {
			return fmt.Errorf("%w: slot id=%d is deactivated", domain.ErrSlotUnavailable, slot.ID)
		}

		if slot.IsPast(now) {
			return fmt.Errorf("%w: slot id=%d on %s at %s has already started",
				domain.ErrSlotUnavailable, slot.ID, slot.Date.Format(domain.DateFormat), slot.StartTime)
		}

		// 3.4. Сохраняем бронирование
		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			return storageError("create reservation", err)
		}

		// 3.5. Снимаем слот с продажи, если емкость исчерпана
		if uc.tracker.IsFullAfter(slot, active) {
			uc.tracker.MarkFull(slot)
			if err := uc.slotRepo.UpdateAvailability(txCtx, slot.ID, slot.IsAvailable); err != nil {
				return storageError("mark slot full", err)
			}
			uc.logger.Info("CreateReservation: slot id=%d is full (%d/%d)", slot.ID, active+1, slot.Capacity)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.mapError(err, slotID)
	}

	return result, nil
}

func (uc *UseCase) reserveOnDemand(ctx context.Context, req *Request, service *domain.Service, details domain.CustomerDetails) (*domain.Reservation, error) {
	now := uc.timeProvider.Now()

	reservation, err := domain.NewReservation(req.CustomerID, service, nil, dateOnly(req.Date), req.StartTime, details, now)
	if err != nil {
		uc.logger.Warn("CreateReservation: invalid on-demand request: %v", err)
		return nil, err
	}

	if err := domain.ValidateBookingTime(reservation.StartsAt(), now); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		return nil, err
	}

	if err := domain.ValidateLeadDays(reservation.ReservationDate, now, uc.config.LeadDays); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		return nil, err
	}

	var result *domain.Reservation
	err = uc.guard.Run(ctx, func(txCtx context.Context) error {
		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			return storageError("create reservation", err)
		}
		result = created
		return nil
	})
	if err != nil {
		uc.logger.Error("CreateReservation: failed to create on-demand reservation: %v", err)
		if txmanager.IsTransient(err) {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	return result, nil
}

// mapError приводит ошибки блокировки и транзакции к ошибкам use case
// Конфликт, не разрешившийся повтором, означает проигранную гонку за емкость
func (uc *UseCase) mapError(err error, slotID int64) error {
	switch {
	case txmanager.IsTransient(err):
		uc.logger.Warn("CreateReservation: slot id=%d conflict persisted after retry: %v", slotID, err)
		return fmt.Errorf("%w: slot id=%d: concurrent reservation won", domain.ErrSlotCapacityExceeded, slotID)
	case errors.Is(err, slotguard.ErrSlotBusy):
		uc.logger.Warn("CreateReservation: %v", err)
		return fmt.Errorf("%w: slot id=%d", ErrSlotBusy, slotID)
	case errors.Is(err, slotguard.ErrLockFailed):
		uc.logger.Error("CreateReservation: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateReservation: slot id=%d: %v", slotID, err)
		return err
	default:
		uc.logger.Warn("CreateReservation: slot id=%d rejected: %v", slotID, err)
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
