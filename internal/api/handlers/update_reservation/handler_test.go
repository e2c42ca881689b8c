package update_reservation

import (
	"context"
	"fmt"
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
	updateReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *updateReservation.Request) (*models.ReservationResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*models.ReservationResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func doRequest(h *Handler, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/reservations/"+id, strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"reservationId": id})
	req = req.WithContext(middleware.WithUserID(req.Context(), 7))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Updated(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateReservation.Request) bool {
		return req.ReservationID == 11 && req.CustomerID == 7 &&
			req.Date != nil && req.Date.Format(domain.DateFormat) == "2025-10-15" &&
			req.StartTime != nil && *req.StartTime == types.TimeString("14:30") &&
			req.CustomerName != nil && *req.CustomerName == "Анна"
	})).Return(&models.ReservationResponse{ID: 11, Status: "PENDING"}, nil)

	rec := doRequest(NewHandler(uc, logger.Nop()), "11",
		`{"reservationDate":"2025-10-15","startTime":"14:30","customerName":"Анна"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":11`)
	uc.AssertExpectations(t)
}

func TestHandler_BadInput(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body string
	}{
		{name: "InvalidID", id: "0", body: `{}`},
		{name: "BrokenJSON", id: "11", body: `{"customerName":`},
		{name: "UnknownField", id: "11", body: `{"status":"CONFIRMED"}`},
		{name: "BadDate", id: "11", body: `{"reservationDate":"15.10.2025"}`},
		{name: "BadTime", id: "11", body: `{"startTime":"25:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := doRequest(NewHandler(uc, logger.Nop()), tt.id, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
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
		{name: "NotFound", err: updateReservation.ErrReservationNotFound, status: http.StatusNotFound},
		{name: "NotOwned", err: domain.ErrReservationNotOwned, status: http.StatusForbidden},
		{name: "NotEditable", err: fmt.Errorf("%w: confirmed", domain.ErrInvalidStateTransition), status: http.StatusConflict},
		{name: "InvalidData", err: domain.ErrInvalidReservationRequest, status: http.StatusBadRequest},
		{name: "Internal", err: updateReservation.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(NewHandler(uc, logger.Nop()), "11", `{"customerPhone":"+79990000000"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
