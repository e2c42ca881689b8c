package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

func newMenuServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/internal/services/1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"business_id":10,"name":"Мойка","is_slot_based":true,"price":1500,"duration_minutes":60}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.Driver = config.StorageDriverMemory
	cfg.Lock.Driver = config.LockDriverMemory
	cfg.MenuService.URL = newMenuServer(t).URL
	require.NoError(t, cfg.Validate())

	a, err := New(context.Background(), cfg, nil, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func do(t *testing.T, h http.Handler, method, path string, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestApp_ReservationFlow(t *testing.T) {
	a := newTestApp(t)
	h := a.Router
	date := time.Now().UTC().AddDate(0, 0, 3).Format(domain.DateFormat)

	// Неделя без выходных 09:00-18:00
	windows := make([]map[string]interface{}, 0, 7)
	for day := 0; day < 7; day++ {
		windows = append(windows, map[string]interface{}{
			"dayOfWeek": day, "sequence": 1, "openTime": "09:00", "closeTime": "18:00",
		})
	}
	rec := do(t, h, http.MethodPut, "/api/v1/businesses/10/operating-hours", "1", map[string]interface{}{"windows": windows})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/businesses/10/operating-hours", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/businesses/10/slots", "1", map[string]interface{}{
		"serviceId":       1,
		"intervalMinutes": 60,
		"schedules": []map[string]interface{}{{
			"date":       date,
			"timeRanges": []map[string]string{{"start": "10:00", "end": "11:00"}},
		}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	slotID := availableSlot(t, h, date, true)

	rec = do(t, h, http.MethodPost, "/api/v1/reservations", "100", map[string]interface{}{"serviceId": 1, "slotId": slotID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "PENDING", created.Status)

	availableSlot(t, h, date, false)

	rec = do(t, h, http.MethodPost, "/api/v1/reservations", "200", map[string]interface{}{"serviceId": 1, "slotId": slotID})
	assert.Equal(t, http.StatusConflict, rec.Code, "slot of capacity 1 is taken")

	rec = do(t, h, http.MethodPatch, "/api/v1/reservations/"+itoa(created.ID)+"/cancel", "200", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/v1/reservations/"+itoa(created.ID)+"/cancel", "100",
		map[string]string{"cancellationReason": "передумал"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	availableSlot(t, h, date, true)

	rec = do(t, h, http.MethodGet, "/api/v1/users/100/reservations", "100", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApp_Unauthorized(t *testing.T) {
	a := newTestApp(t)

	rec := do(t, a.Router, http.MethodPost, "/api/v1/reservations", "", map[string]interface{}{"serviceId": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, a.Router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func availableSlot(t *testing.T, h http.Handler, date string, wantAvailable bool) int64 {
	t.Helper()

	rec := do(t, h, http.MethodGet, "/api/v1/businesses/10/available-slots?date="+date+"&serviceId=1&includeUnavailable=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Slots []struct {
			ID          int64 `json:"id"`
			IsAvailable bool  `json:"isAvailable"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, wantAvailable, resp.Slots[0].IsAvailable)
	return resp.Slots[0].ID
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
