package update_reservation_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	updateStatus "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation_status"
)

const (
	msgInvalidBusinessID    = "некорректный ID бизнеса"
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStatus        = "некорректный статус"
	msgStatusNotAllowed     = "бизнес может установить только CONFIRMED, COMPLETED или NO_SHOW"
	msgNotFound             = "бронирование не найдено"
	msgInvalidTransition    = "недопустимая смена статуса"
	msgSlotBusy             = "слот сейчас занят другим запросом, попробуйте еще раз"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type Handler struct {
	useCase UpdateStatusUseCase
	logger  Logger
}

func NewHandler(useCase UpdateStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/businesses/{businessId}/reservations/{reservationId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("PATCH /businesses/{id}/reservations/{id}/status - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /businesses/{id}/reservations/{id}/status - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /businesses/{id}/reservations/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	status, err := domain.ParseReservationStatus(req.Status)
	if err != nil {
		h.logger.Warn("PATCH /businesses/{id}/reservations/{id}/status - Invalid status: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &updateStatus.Request{
		ReservationID: reservationID,
		BusinessID:    businessID,
		Status:        status,
	})
	if err != nil {
		switch {
		case errors.Is(err, updateStatus.ErrReservationNotFound):
			h.logger.Warn("PATCH /businesses/{id}/reservations/{id}/status - Reservation not found: business_id=%d, reservation_id=%d",
				businessID, reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateStatus.ErrStatusNotAllowed):
			h.logger.Warn("PATCH /businesses/{id}/reservations/{id}/status - Status not allowed: status=%s", status)
			handlers.RespondBadRequest(w, msgStatusNotAllowed)

		case errors.Is(err, domain.ErrInvalidStateTransition):
			h.logger.Warn("PATCH /businesses/{id}/reservations/{id}/status - Invalid transition: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, updateStatus.ErrSlotBusy):
			h.logger.Warn("PATCH /businesses/{id}/reservations/{id}/status - Slot busy: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgSlotBusy)

		case errors.Is(err, domain.ErrInvalidReservationRequest):
			h.logger.Warn("PATCH /businesses/{id}/reservations/{id}/status - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("PATCH /businesses/{id}/reservations/{id}/status - Failed to update status: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /businesses/{id}/reservations/{id}/status - Status updated: reservation_id=%d, status=%s",
		reservationID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
