package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	createSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_slots"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_slots"
	getBusinessReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_business_reservations"
	getCustomerReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_customer_reservations"
	getOperatingHoursHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_operating_hours"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	manageSlotHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/manage_slot"
	updateOperatingHoursHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_operating_hours"
	updateReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation"
	updateStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation_status"
	"github.com/m04kA/SMC-ReservationService/internal/api/router"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/events"
	"github.com/m04kA/SMC-ReservationService/internal/infra/locker"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/menuservice"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notificationservice"
	"github.com/m04kA/SMC-ReservationService/internal/jobs"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	scheduleService "github.com/m04kA/SMC-ReservationService/internal/service/schedule"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotguard"
	cancelReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	createSlotsUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_slots"
	getAvailableSlotsUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
	manageSlotUC "github.com/m04kA/SMC-ReservationService/internal/usecase/manage_slot"
	updateReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
	updateStatusUC "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation_status"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/retry"
)

// Повтор транзакции бронирования после конфликта сериализации
var slotRetryPolicy = retry.Policy{
	MaxRetries:    1,
	InitialDelay:  20 * time.Millisecond,
	MaxDelay:      200 * time.Millisecond,
	BackoffFactor: 2,
}

// App собранный сервис
type App struct {
	Config      *config.Config
	Router      http.Handler
	CreateSlots *createSlotsUC.UseCase
	Horizon     *jobs.Horizon

	storage     *Storage
	closeLocker func() error
}

// New собирает сервис из конфигурации
// m может быть nil, тогда метрики выключены
func New(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*App, error) {
	storage, err := NewStorage(cfg, m, log)
	if err != nil {
		return nil, err
	}

	slotLocker, closeLocker, err := NewLocker(ctx, cfg, log)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	a := &App{Config: cfg, storage: storage, closeLocker: closeLocker}
	a.wire(slotLocker, m, log)
	return a, nil
}

func (a *App) wire(slotLocker locker.Locker, m *metrics.Metrics, log *logger.Logger) {
	cfg := a.Config
	st := a.storage

	// Инициализируем интеграционных клиентов
	menuClient := menuservice.NewClient(
		cfg.MenuService.URL,
		time.Duration(cfg.MenuService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (MenuService=%s timeout=%ds)", cfg.MenuService.URL, cfg.MenuService.Timeout)

	bus := events.NewBus(log)
	if cfg.NotificationService.URL != "" {
		notifier := notificationservice.NewClient(
			cfg.NotificationService.URL,
			time.Duration(cfg.NotificationService.Timeout)*time.Second,
			retry.Policy{
				MaxRetries:   cfg.NotificationService.MaxRetries,
				InitialDelay: time.Duration(cfg.NotificationService.InitialDelayMs) * time.Millisecond,
			},
			log,
		)
		bus.Subscribe(events.EventReservationStatusChanged, notifier.Handle)
		log.Info("Notification delivery enabled (NotificationService=%s)", cfg.NotificationService.URL)
	}

	guard := slotguard.New(slotLocker, st.Tx, slotRetryPolicy, m, log)

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(st.Reservations, log)
	scheduleSvc := scheduleService.NewService(st.OperatingHours, st.Tx, log)

	// Инициализируем use cases
	createReservation := createReservationUC.NewUseCase(
		st.Slots, st.Reservations, menuClient, guard, bus, m,
		createReservationUC.Config{LeadDays: cfg.Booking.LeadDays},
		log,
	)
	cancelReservation := cancelReservationUC.NewUseCase(st.Slots, st.Reservations, guard, bus, m, log)
	updateStatus := updateStatusUC.NewUseCase(st.Slots, st.Reservations, guard, bus, m, log)
	updateReservation := updateReservationUC.NewUseCase(
		st.Reservations, guard,
		updateReservationUC.Config{LeadDays: cfg.Booking.LeadDays},
		log,
	)
	createSlots := createSlotsUC.NewUseCase(st.Slots, st.OperatingHours, menuClient, m, log)
	getAvailableSlots := getAvailableSlotsUC.NewUseCase(
		st.Slots, st.Reservations, st.Tx,
		getAvailableSlotsUC.Config{LeadDays: cfg.Booking.LeadDays},
		log,
	)
	manageSlot := manageSlotUC.NewUseCase(st.Slots, st.Reservations, guard, log)

	// Инициализируем handlers
	handlers := &router.Handlers{
		CreateReservation:       createReservationHandler.NewHandler(createReservation, log),
		CancelReservation:       cancelReservationHandler.NewHandler(cancelReservation, log),
		UpdateReservation:       updateReservationHandler.NewHandler(updateReservation, log),
		GetReservation:          getReservationHandler.NewHandler(reservationSvc, log),
		GetCustomerReservations: getCustomerReservationsHandler.NewHandler(reservationSvc, log),
		GetBusinessReservations: getBusinessReservationsHandler.NewHandler(reservationSvc, log),
		UpdateStatus:            updateStatusHandler.NewHandler(updateStatus, log),
		GetAvailableSlots:       getAvailableSlotsHandler.NewHandler(getAvailableSlots, log),
		CreateSlots:             createSlotsHandler.NewHandler(createSlots, log),
		ManageSlot:              manageSlotHandler.NewHandler(manageSlot, log),
		GetOperatingHours:       getOperatingHoursHandler.NewHandler(scheduleSvc, log),
		UpdateOperatingHours:    updateOperatingHoursHandler.NewHandler(scheduleSvc, log),
	}

	opts := router.Options{Logger: log}
	if m != nil {
		opts.Metrics = m
		opts.MetricsPath = cfg.Metrics.Path
	}
	a.Router = router.New(handlers, opts)

	a.CreateSlots = createSlots
	a.Horizon = jobs.NewHorizon(createSlots, horizonTargets(cfg.Booking.Horizon), cfg.Booking.Horizon.DaysAhead, log)
}

// Close освобождает ресурсы сервиса
func (a *App) Close() error {
	a.Horizon.Stop()
	return errors.Join(a.closeLocker(), a.storage.Close())
}

func horizonTargets(cfg config.HorizonConfig) []jobs.Target {
	targets := make([]jobs.Target, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		targets = append(targets, jobs.Target{
			BusinessID:      t.BusinessID,
			ServiceID:       t.ServiceID,
			IntervalMinutes: t.IntervalMinutes,
			Capacity:        t.Capacity,
		})
	}
	return targets
}
