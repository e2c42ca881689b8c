package create_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	menuClient "github.com/m04kA/SMC-ReservationService/internal/integrations/menuservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// UseCase use case для пакетной генерации слотов
type UseCase struct {
	slotRepo     SlotRepository
	hoursRepo    OperatingHoursRepository
	menuClient   MenuServiceClient
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	hoursRepo OperatingHoursRepository,
	menuClient MenuServiceClient,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		hoursRepo:    hoursRepo,
		menuClient:   menuClient,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case генерации слотов
// Операция best-effort: ошибка сохранения одного слота не прерывает пакет
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSlots: business=%d, service=%d, interval=%d, schedules=%d",
		req.BusinessID, req.ServiceID, req.IntervalMinutes, len(req.Schedules))

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу и проверяем совместимость
	service, err := uc.menuClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, menuClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateSlots: service id=%d not found", req.ServiceID)
			return nil, fmt.Errorf("%w: service id=%d", ErrServiceNotFound, req.ServiceID)
		}
		uc.logger.Error("CreateSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateService(service, req); err != nil {
		uc.logger.Warn("CreateSlots: service validation failed: %v", err)
		return nil, err
	}

	// 3. Загружаем рабочие окна для каждого дня недели из запроса
	windows, err := uc.loadWindows(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Генерируем кандидатов
	capacity := ptr.Deref(req.Capacity, domain.DefaultSlotCapacity)

	params := slots.GenerateParams{
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		IntervalMinutes: req.IntervalMinutes,
		Capacity:        capacity,
		Schedules:       make([]slots.DaySchedule, 0, len(req.Schedules)),
	}
	for _, s := range req.Schedules {
		params.Schedules = append(params.Schedules, slots.DaySchedule{Date: dateOnly(s.Date), TimeRanges: s.TimeRanges})
	}

	generated, err := slots.Generate(params, windows)
	if err != nil {
		uc.logger.Warn("CreateSlots: generation failed: %v", err)
		return nil, err
	}

	// 5. Сохраняем кандидатов, дубликаты пропускаются
	resp := &Response{
		Requested:    len(generated.Candidates),
		Rejected:     generated.Rejected,
		SkippedDates: generated.SkippedDates,
	}

	for i := range generated.Candidates {
		candidate := generated.Candidates[i]

		created, err := uc.slotRepo.CreateIfNotExists(ctx, &candidate)
		if err != nil {
			resp.Failed++
			uc.logger.Error("CreateSlots: failed to save slot %s %s: %v",
				candidate.Date.Format(domain.DateFormat), candidate.StartTime, err)
			continue
		}

		if created {
			resp.Created++
		} else {
			resp.Skipped++
		}
	}

	uc.metrics.ObserveSlotGeneration(resp.Created, resp.Skipped)

	// Даты без открытых окон тоже считаются пропущенными
	resp.Skipped += len(resp.SkippedDates)

	uc.logger.Info("CreateSlots: business=%d, service=%d: requested=%d, created=%d, skipped=%d, failed=%d, rejected=%d, skipped_dates=%d",
		req.BusinessID, req.ServiceID, resp.Requested, resp.Created, resp.Skipped, resp.Failed, resp.Rejected, len(resp.SkippedDates))

	return resp, nil
}

func (uc *UseCase) loadWindows(ctx context.Context, req *Request) (slots.WindowsByDay, error) {
	windows := make(slots.WindowsByDay)

	for _, s := range req.Schedules {
		day := domain.DayOfWeekOf(s.Date)
		if _, loaded := windows[day]; loaded {
			continue
		}

		dayWindows, err := uc.hoursRepo.GetByBusinessAndDay(ctx, req.BusinessID, day)
		if err != nil {
			uc.logger.Error("CreateSlots: failed to get operating hours for business=%d, day=%s: %v", req.BusinessID, day, err)
			return nil, fmt.Errorf("%w: failed to get operating hours: %v", ErrInternal, err)
		}
		windows[day] = dayWindows
	}

	return windows, nil
}
