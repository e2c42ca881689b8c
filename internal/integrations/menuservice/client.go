package menuservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с MenuService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента MenuService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService получает параметры услуги, нужные для бронирования
func (c *Client) GetService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	url := fmt.Sprintf("%s/internal/services/%d", c.baseURL, serviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("MenuService request failed for service_id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: service_id=%d", ErrServiceNotFound, serviceID)
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, decodeError(resp.Body))
	}

	var service Service
	if err := json.NewDecoder(resp.Body).Decode(&service); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if service.ID == 0 {
		service.ID = serviceID
	}
	if service.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: negative duration %d for service_id=%d", ErrInvalidResponse, service.DurationMinutes, serviceID)
	}

	c.log.Info("Fetched service_id=%d (slot_based=%t, on_demand=%t, duration=%d)",
		serviceID, service.IsSlotBased, service.IsOnDemandBased, service.DurationMinutes)
	return service.ToDomain(), nil
}

func decodeError(body io.Reader) string {
	var errResp ErrorResponse
	raw, err := io.ReadAll(body)
	if err != nil {
		return ""
	}
	if err := json.Unmarshal(raw, &errResp); err != nil || errResp.Message == "" {
		return string(raw)
	}
	return errResp.Message
}

// IsUnavailable проверяет, что ошибка вызвана недоступностью MenuService
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
