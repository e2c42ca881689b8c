package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-ReservationService/internal/usecase/create_slots"
)

// ErrInvalidSchedule возвращается при некорректном cron выражении
var ErrInvalidSchedule = errors.New("jobs: invalid cron schedule")

// SlotsGenerator use case пакетной генерации слотов
type SlotsGenerator interface {
	Execute(ctx context.Context, req *create_slots.Request) (*create_slots.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Target услуга, для которой поддерживается горизонт слотов
type Target struct {
	BusinessID      int64
	ServiceID       int64
	IntervalMinutes int
	Capacity        *int
}

// Summary итог одного прогона
type Summary struct {
	Targets int
	Failed  int
	Created int
	Skipped int
}

// Horizon периодически досоздает слоты на DaysAhead дней вперед
// Повторный прогон идемпотентен: уже существующие слоты пропускаются
type Horizon struct {
	generator SlotsGenerator
	targets   []Target
	daysAhead int
	now       func() time.Time
	logger    Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewHorizon создает фоновую задачу
func NewHorizon(generator SlotsGenerator, targets []Target, daysAhead int, logger Logger) *Horizon {
	return &Horizon{
		generator: generator,
		targets:   targets,
		daysAhead: daysAhead,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock подменяет источник времени
func (h *Horizon) WithClock(now func() time.Time) *Horizon {
	h.now = now
	return h
}

// Start запускает задачу по расписанию schedule (стандартный 5-польный cron, UTC)
func (h *Horizon) Start(schedule string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cron != nil {
		return nil
	}

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(schedule, func() {
		_, _ = h.Run(context.Background())
	}); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}

	c.Start()
	h.cron = c
	h.logger.Info("Horizon: scheduled %q for %d targets, %d days ahead", schedule, len(h.targets), h.daysAhead)
	return nil
}

// Stop останавливает расписание и ждет завершения текущего прогона
func (h *Horizon) Stop() {
	h.mu.Lock()
	c := h.cron
	h.cron = nil
	h.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	h.logger.Info("Horizon: stopped")
}

// Run генерирует слоты для всех целей с сегодняшнего дня на daysAhead дней
// Ошибка одной цели не прерывает остальные
func (h *Horizon) Run(ctx context.Context) (*Summary, error) {
	schedules := h.schedules()
	summary := &Summary{Targets: len(h.targets)}

	var errs []error
	for _, t := range h.targets {
		resp, err := h.generator.Execute(ctx, &create_slots.Request{
			BusinessID:      t.BusinessID,
			ServiceID:       t.ServiceID,
			IntervalMinutes: t.IntervalMinutes,
			Capacity:        t.Capacity,
			Schedules:       schedules,
		})
		if err != nil {
			summary.Failed++
			h.logger.Error("Horizon: business=%d, service=%d: %v", t.BusinessID, t.ServiceID, err)
			errs = append(errs, fmt.Errorf("business=%d service=%d: %w", t.BusinessID, t.ServiceID, err))
			continue
		}
		summary.Created += resp.Created
		summary.Skipped += resp.Skipped
	}

	h.logger.Info("Horizon: targets=%d, failed=%d, created=%d, skipped=%d",
		summary.Targets, summary.Failed, summary.Created, summary.Skipped)

	return summary, errors.Join(errs...)
}

func (h *Horizon) schedules() []create_slots.Schedule {
	y, m, d := h.now().UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	schedules := make([]create_slots.Schedule, 0, h.daysAhead)
	for i := 0; i < h.daysAhead; i++ {
		schedules = append(schedules, create_slots.Schedule{Date: today.AddDate(0, 0, i)})
	}
	return schedules
}
