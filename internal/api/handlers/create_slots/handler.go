package create_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/create_slots"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSchedule    = "некорректный формат даты или времени в расписании"
	msgServiceNotFound    = "услуга не найдена"
	msgNotSlotBased       = "услуга не поддерживает бронирование по слотам"
	msgInvalidData        = "некорректные параметры генерации слотов"
)

type Handler struct {
	useCase CreateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase CreateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req CreateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(businessID)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/slots - Failed to parse schedules: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchedule)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createSlots.ErrServiceNotFound):
			h.logger.Warn("POST /businesses/{id}/slots - Service not found: business_id=%d, service_id=%d", businessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createSlots.ErrServiceNotSlotBased):
			h.logger.Warn("POST /businesses/{id}/slots - Service is not slot-based: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgNotSlotBased)

		case errors.Is(err, domain.ErrInvalidScheduleRequest):
			h.logger.Warn("POST /businesses/{id}/slots - Invalid request: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /businesses/{id}/slots - Failed to create slots: business_id=%d, service_id=%d, error=%v",
				businessID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/slots - Slots generated: business_id=%d, service_id=%d, created=%d, skipped=%d",
		businessID, req.ServiceID, result.Created, result.Skipped)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
