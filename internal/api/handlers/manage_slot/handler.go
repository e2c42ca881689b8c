package manage_slot

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	manageSlot "github.com/m04kA/SMC-ReservationService/internal/usecase/manage_slot"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidSlotID     = "некорректный ID слота"
	msgSlotNotFound      = "слот не найден"
	msgHasHistory        = "у слота есть история бронирований, его можно только деактивировать"
	msgHasActive         = "у слота есть активные бронирования"
	msgSlotFull          = "в слоте не осталось мест"
	msgSlotUnavailable   = "слот уже начался"
	msgSlotBusy          = "слот сейчас занят другим запросом, попробуйте еще раз"
)

type action func(ctx context.Context, req *manageSlot.Request) (*manageSlot.Response, error)

type Handler struct {
	useCase ManageSlotUseCase
	logger  Logger
}

func NewHandler(useCase ManageSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleDelete DELETE /api/v1/businesses/{businessId}/slots/{slotId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "DELETE /businesses/{id}/slots/{id}", h.useCase.Delete)
}

// HandleDeactivate PATCH /api/v1/businesses/{businessId}/slots/{slotId}/deactivate
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "PATCH /businesses/{id}/slots/{id}/deactivate", h.useCase.Deactivate)
}

// HandleActivate PATCH /api/v1/businesses/{businessId}/slots/{slotId}/activate
func (h *Handler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "PATCH /businesses/{id}/slots/{id}/activate", h.useCase.Activate)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route string, fn action) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("%s - Invalid business ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("%s - Invalid slot ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := fn(r.Context(), &manageSlot.Request{SlotID: slotID, BusinessID: businessID})
	if err != nil {
		switch {
		case errors.Is(err, manageSlot.ErrSlotNotFound):
			h.logger.Warn("%s - Slot not found: business_id=%d, slot_id=%d", route, businessID, slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, manageSlot.ErrSlotHasHistory):
			h.logger.Warn("%s - Slot has history: slot_id=%d", route, slotID)
			handlers.RespondConflict(w, msgHasHistory)

		case errors.Is(err, domain.ErrSlotHasActiveReservations):
			h.logger.Warn("%s - Slot has active reservations: slot_id=%d, error=%v", route, slotID, err)
			handlers.RespondConflict(w, msgHasActive)

		case errors.Is(err, domain.ErrSlotCapacityExceeded):
			h.logger.Warn("%s - Slot is full: slot_id=%d", route, slotID)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, domain.ErrSlotUnavailable):
			h.logger.Warn("%s - Slot unavailable: slot_id=%d, error=%v", route, slotID, err)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, manageSlot.ErrSlotBusy):
			h.logger.Warn("%s - Slot busy: slot_id=%d", route, slotID)
			handlers.RespondConflict(w, msgSlotBusy)

		default:
			h.logger.Error("%s - Failed: business_id=%d, slot_id=%d, error=%v", route, businessID, slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Done: slot_id=%d, action=%s, available=%t", route, slotID, result.Action, result.IsAvailable)
	handlers.RespondJSON(w, http.StatusOK, result)
}
