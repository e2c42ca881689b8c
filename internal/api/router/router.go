package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

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
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
)

// Handlers обработчики всех маршрутов API
type Handlers struct {
	CreateReservation       *createReservationHandler.Handler
	CancelReservation       *cancelReservationHandler.Handler
	UpdateReservation       *updateReservationHandler.Handler
	GetReservation          *getReservationHandler.Handler
	GetCustomerReservations *getCustomerReservationsHandler.Handler
	GetBusinessReservations *getBusinessReservationsHandler.Handler
	UpdateStatus            *updateStatusHandler.Handler
	GetAvailableSlots       *getAvailableSlotsHandler.Handler
	CreateSlots             *createSlotsHandler.Handler
	ManageSlot              *manageSlotHandler.Handler
	GetOperatingHours       *getOperatingHoursHandler.Handler
	UpdateOperatingHours    *updateOperatingHoursHandler.Handler
}

// Options параметры роутера
type Options struct {
	Metrics     middleware.HTTPMetrics // nil - метрики выключены
	MetricsPath string
	Logger      middleware.Logger
}

// New собирает роутер API
func New(h *Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Recover(opts.Logger))
	r.Use(middleware.RequestLog(opts.Logger))

	// Добавляем metrics middleware (если метрики включены)
	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
		r.Handle(opts.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Слоты на дату
	api.HandleFunc("/businesses/{businessId}/available-slots", h.GetAvailableSlots.Handle).Methods(http.MethodGet)

	// Рабочие часы бизнеса
	api.HandleFunc("/businesses/{businessId}/operating-hours", h.GetOperatingHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования клиента ---
	protected.HandleFunc("/reservations", h.CreateReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", h.GetReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}", h.UpdateReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/cancel", h.CancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/reservations", h.GetCustomerReservations.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (права менеджера проверяет шлюз) ---
	protected.HandleFunc("/businesses/{businessId}/reservations", h.GetBusinessReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/reservations/{reservationId}", h.GetReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/reservations/{reservationId}/status", h.UpdateStatus.Handle).Methods(http.MethodPatch)

	protected.HandleFunc("/businesses/{businessId}/slots", h.CreateSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/slots/{slotId}", h.ManageSlot.HandleDelete).Methods(http.MethodDelete)
	protected.HandleFunc("/businesses/{businessId}/slots/{slotId}/deactivate", h.ManageSlot.HandleDeactivate).Methods(http.MethodPatch)
	protected.HandleFunc("/businesses/{businessId}/slots/{slotId}/activate", h.ManageSlot.HandleActivate).Methods(http.MethodPatch)

	protected.HandleFunc("/businesses/{businessId}/operating-hours", h.UpdateOperatingHours.Handle).Methods(http.MethodPut)

	return r
}
