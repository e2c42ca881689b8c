package create_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/create_slots"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *createSlots.Request) (*createSlots.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*createSlots.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func doRequest(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/businesses/10/slots", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"businessId": "10"})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Summary(t *testing.T) {
	sunday := time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createSlots.Request) bool {
		return req.BusinessID == 10 && req.ServiceID == 5 && req.IntervalMinutes == 60 &&
			len(req.Schedules) == 2 &&
			len(req.Schedules[0].TimeRanges) == 1 &&
			req.Schedules[0].TimeRanges[0] == domain.TimeRange{Start: types.TimeString("10:00"), End: types.TimeString("12:00")} &&
			req.Schedules[1].TimeRanges == nil
	})).Return(&createSlots.Response{Requested: 2, Created: 2, SkippedDates: []time.Time{sunday}}, nil)

	rec := doRequest(NewHandler(uc, logger.Nop()), `{
		"serviceId": 5,
		"intervalMinutes": 60,
		"schedules": [
			{"date": "2025-10-15", "timeRanges": [{"start": "10:00", "end": "12:00"}]},
			{"date": "2025-10-19"}
		]
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CreateSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, []string{"2025-10-19"}, resp.SkippedDates)
	uc.AssertExpectations(t)
}

func TestHandler_BadSchedule(t *testing.T) {
	for name, body := range map[string]string{
		"BadDate":  `{"serviceId":5,"intervalMinutes":60,"schedules":[{"date":"tomorrow"}]}`,
		"BadStart": `{"serviceId":5,"intervalMinutes":60,"schedules":[{"date":"2025-10-15","timeRanges":[{"start":"x","end":"12:00"}]}]}`,
		"BadEnd":   `{"serviceId":5,"intervalMinutes":60,"schedules":[{"date":"2025-10-15","timeRanges":[{"start":"10:00","end":"y"}]}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := doRequest(NewHandler(uc, logger.Nop()), body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), msgInvalidSchedule)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "ServiceNotFound", err: createSlots.ErrServiceNotFound, status: http.StatusNotFound, message: msgServiceNotFound},
		{name: "NotSlotBased", err: createSlots.ErrServiceNotSlotBased, status: http.StatusBadRequest, message: msgNotSlotBased},
		{name: "Invalid", err: domain.ErrInvalidScheduleRequest, status: http.StatusBadRequest, message: msgInvalidData},
		{name: "Internal", err: createSlots.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(NewHandler(uc, logger.Nop()), `{"serviceId":5,"intervalMinutes":60,"schedules":[{"date":"2025-10-15"}]}`)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}
