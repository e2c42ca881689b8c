package cancel_reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	cancelReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *cancelReservation.Request) (*models.ReservationResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*models.ReservationResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func doRequest(h *Handler, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/reservations/"+id+"/cancel", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"reservationId": id})
	req = req.WithContext(middleware.WithUserID(req.Context(), 7))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Cancelled(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *cancelReservation.Request) bool {
		return req.ReservationID == 11 && req.CustomerID == 7 && req.Reason != nil && *req.Reason == "заболел"
	})).Return(&models.ReservationResponse{ID: 11, Status: "CANCELLED"}, nil)

	rec := doRequest(NewHandler(uc, logger.Nop()), "11", `{"cancellationReason":"заболел"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"CANCELLED"`)
	uc.AssertExpectations(t)
}

func TestHandler_EmptyBody(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *cancelReservation.Request) bool {
		return req.Reason == nil
	})).Return(&models.ReservationResponse{ID: 11}, nil)

	rec := doRequest(NewHandler(uc, logger.Nop()), "11", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_InvalidID(t *testing.T) {
	uc := &mockUseCase{}
	rec := doRequest(NewHandler(uc, logger.Nop()), "abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "NotFound", err: cancelReservation.ErrReservationNotFound, status: http.StatusNotFound},
		{name: "NotOwned", err: domain.ErrReservationNotOwned, status: http.StatusForbidden},
		{name: "DeadlinePassed", err: domain.ErrCancellationDeadlinePassed, status: http.StatusUnprocessableEntity},
		{name: "Terminal", err: &domain.TransitionError{From: domain.StatusCompleted, To: domain.StatusCancelled}, status: http.StatusConflict},
		{name: "SlotBusy", err: cancelReservation.ErrSlotBusy, status: http.StatusConflict},
		{name: "Invalid", err: domain.ErrInvalidReservationRequest, status: http.StatusBadRequest},
		{name: "Internal", err: cancelReservation.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(NewHandler(uc, logger.Nop()), "11", "")

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
