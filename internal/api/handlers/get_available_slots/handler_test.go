package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*getAvailableSlots.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func doRequest(h *Handler, businessID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/businesses/"+businessID+"/available-slots?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"businessId": businessID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Slots(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailableSlots.Request) bool {
		return req.BusinessID == 10 && req.ServiceID != nil && *req.ServiceID == 5 && req.Date.Equal(date) && req.IncludeUnavailable
	})).Return(&getAvailableSlots.Response{
		Date:       date,
		BusinessID: 10,
		Slots: []getAvailableSlots.Slot{
			{ID: 1, ServiceID: 5, StartTime: "10:00", EndTime: "11:00", DurationMinutes: 60, TotalSpots: 3, AvailableSpots: 2, ActiveCount: 1, IsAvailable: true},
		},
	}, nil)

	rec := doRequest(NewHandler(uc, logger.Nop()), "10", "date=2025-10-15&serviceId=5&includeUnavailable=true")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-10-15", resp.Date)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "10:00", resp.Slots[0].StartTime)
	assert.Equal(t, "11:00", resp.Slots[0].EndTime)
	assert.Equal(t, 2, resp.Slots[0].AvailableSpots)
	uc.AssertExpectations(t)
}

func TestHandler_BadQuery(t *testing.T) {
	tests := []struct {
		name       string
		businessID string
		query      string
		message    string
	}{
		{name: "BadBusiness", businessID: "x", query: "date=2025-10-15", message: msgInvalidBusinessID},
		{name: "BadService", businessID: "10", query: "date=2025-10-15&serviceId=abc", message: msgInvalidServiceID},
		{name: "BadFlag", businessID: "10", query: "date=2025-10-15&includeUnavailable=maybe", message: msgInvalidFlag},
		{name: "MissingDate", businessID: "10", query: "", message: msgMissingDate},
		{name: "BadDate", businessID: "10", query: "date=15.10.2025", message: msgInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := doRequest(NewHandler(uc, logger.Nop()), tt.businessID, tt.query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
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
		{name: "PastDate", err: getAvailableSlots.ErrInvalidDate, status: http.StatusBadRequest},
		{name: "TooFar", err: getAvailableSlots.ErrDateTooFarInFuture, status: http.StatusBadRequest},
		{name: "Internal", err: getAvailableSlots.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(NewHandler(uc, logger.Nop()), "10", "date=2025-10-15")

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
