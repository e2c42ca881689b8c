package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// UseCase use case для получения слотов с их занятостью
type UseCase struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	tx              TransactionManager
	config          Config
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	tx TransactionManager,
	config Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
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

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%v, date=%s, includeUnavailable=%t",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.IncludeUnavailable)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now, uc.config.LeadDays, req.IncludeUnavailable); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	date := dateOnly(req.Date)
	resp := &Response{
		Date:       date,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Slots:      []Slot{},
	}

	// 3. Слоты и их занятость читаются из одного снимка
	var (
		slots     []*domain.Slot
		active    map[int64]int
		completed map[int64]int
	)
	err := uc.tx.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		slots, err = uc.slotRepo.List(txCtx, domain.SlotsFilter{
			BusinessID: req.BusinessID,
			ServiceID:  req.ServiceID,
			StartDate:  date,
			EndDate:    date,
		})
		if err != nil {
			return fmt.Errorf("failed to list slots: %w", err)
		}
		if len(slots) == 0 {
			return nil
		}

		// 4. Считаем занятость одним запросом на статус
		ids := slotIDs(slots)
		active, err = uc.reservationRepo.CountBySlots(txCtx, ids, domain.ActiveStatuses)
		if err != nil {
			return fmt.Errorf("failed to count active reservations: %w", err)
		}
		completed, err = uc.reservationRepo.CountBySlots(txCtx, ids, []domain.ReservationStatus{domain.StatusCompleted})
		if err != nil {
			return fmt.Errorf("failed to count completed reservations: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if len(slots) == 0 {
		uc.logger.Info("GetAvailableSlots: no slots for business=%d on %s", req.BusinessID, date.Format(domain.DateFormat))
		return resp, nil
	}

	// 5. Собираем ответ
	resp.Slots = buildSlots(slots, active, completed, now, req.IncludeUnavailable)

	uc.logger.Info("GetAvailableSlots: %d of %d slots returned for business=%d on %s",
		len(resp.Slots), len(slots), req.BusinessID, date.Format(domain.DateFormat))

	return resp, nil
}
