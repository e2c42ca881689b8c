package notificationservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/events"
	"github.com/m04kA/SMC-ReservationService/pkg/retry"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Client доставляет доменные события в NotificationService
// Формирование и отправка уведомлений целиком на стороне NotificationService
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
	log        Logger
}

// NewClient создает новый экземпляр клиента NotificationService
func NewClient(baseURL string, timeout time.Duration, policy retry.Policy, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		policy: policy,
		log:    log,
	}
}

// Handle обработчик для events.Bus
func (c *Client) Handle(event *events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout*time.Duration(c.policy.MaxRetries+1)+time.Second)
	defer cancel()
	return c.Send(ctx, event)
}

// Send отправляет событие, повторяя попытку при сетевых ошибках и 5xx
func (c *Client) Send(ctx context.Context, event *events.Event) error {
	body, err := json.Marshal(Notification{
		EventID:   event.ID,
		EventType: event.Type,
		CreatedAt: event.CreatedAt,
		Payload:   json.RawMessage(event.Payload),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	err = c.policy.Do(ctx, isRetryable, func(ctx context.Context) error {
		return c.post(ctx, body)
	})
	if err != nil {
		c.log.Warn("NotificationService: event %s (%s) not delivered: %v", event.ID, event.Type, err)
		return err
	}

	c.log.Info("NotificationService: event %s (%s) delivered", event.ID, event.Type)
	return nil
}

func (c *Client) post(ctx context.Context, body []byte) error {
	url := fmt.Sprintf("%s/internal/notifications/reservations", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &deliveryError{retryable: true, err: fmt.Errorf("%w: failed to execute request: %v", ErrDeliveryFailed, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	return &deliveryError{
		retryable: resp.StatusCode >= http.StatusInternalServerError,
		err:       fmt.Errorf("%w: status code %d: %s", ErrDeliveryFailed, resp.StatusCode, string(respBody)),
	}
}

type deliveryError struct {
	retryable bool
	err       error
}

func (e *deliveryError) Error() string { return e.err.Error() }
func (e *deliveryError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	de, ok := err.(*deliveryError)
	return ok && de.retryable
}
