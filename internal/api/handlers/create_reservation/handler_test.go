package create_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *createReservation.Request) (*models.ReservationResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*models.ReservationResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func doRequest(h *Handler, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createReservation.Request) bool {
		return req.CustomerID == 7 && req.ServiceID == 5 && req.SlotID != nil && *req.SlotID == 3
	})).Return(&models.ReservationResponse{ID: 11, Status: string(domain.StatusPending)}, nil)

	rec := doRequest(NewHandler(uc, logger.Nop()), `{"serviceId":5,"slotId":3}`, 7)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "PENDING", resp.Status)
	uc.AssertExpectations(t)
}

func TestHandler_OnDemandParsing(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createReservation.Request) bool {
		return req.SlotID == nil &&
			req.Date.Equal(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)) &&
			req.StartTime == types.TimeString("14:30")
	})).Return(&models.ReservationResponse{ID: 12}, nil)

	rec := doRequest(NewHandler(uc, logger.Nop()), `{"serviceId":5,"reservationDate":"2025-10-15","startTime":"14:30"}`, 7)

	assert.Equal(t, http.StatusCreated, rec.Code)
	uc.AssertExpectations(t)
}

func TestHandler_BadInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		userID  int64
		status  int
		message string
	}{
		{name: "NoUser", body: `{"serviceId":5}`, status: http.StatusUnauthorized, message: msgMissingUserID},
		{name: "BrokenJSON", body: `{"serviceId":`, userID: 7, status: http.StatusBadRequest, message: msgInvalidRequestBody},
		{name: "UnknownField", body: `{"serviceId":5,"carId":1}`, userID: 7, status: http.StatusBadRequest, message: msgInvalidRequestBody},
		{name: "BadDate", body: `{"serviceId":5,"reservationDate":"15.10.2025"}`, userID: 7, status: http.StatusBadRequest, message: msgInvalidDate},
		{name: "BadTime", body: `{"serviceId":5,"reservationDate":"2025-10-15","startTime":"25:00"}`, userID: 7, status: http.StatusBadRequest, message: msgInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := doRequest(NewHandler(uc, logger.Nop()), tt.body, tt.userID)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "CapacityExceeded", err: fmt.Errorf("%w: slot id=3", domain.ErrSlotCapacityExceeded), status: http.StatusConflict},
		{name: "SlotBusy", err: createReservation.ErrSlotBusy, status: http.StatusConflict},
		{name: "SlotUnavailable", err: domain.ErrSlotUnavailable, status: http.StatusConflict},
		{name: "ServiceNotFound", err: createReservation.ErrServiceNotFound, status: http.StatusNotFound},
		{name: "SlotNotFound", err: createReservation.ErrSlotNotFound, status: http.StatusNotFound},
		{name: "TooFar", err: createReservation.ErrDateTooFarInFuture, status: http.StatusBadRequest},
		{name: "Invalid", err: domain.ErrInvalidReservationRequest, status: http.StatusBadRequest},
		{name: "Internal", err: createReservation.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(NewHandler(uc, logger.Nop()), `{"serviceId":5,"slotId":3}`, 7)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
