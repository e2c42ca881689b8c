package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// EventReservationStatusChanged создание бронирования или смена его статуса
const EventReservationStatusChanged = "reservation_status_changed"

// ReservationStatusChangedPayload минимальный снимок бронирования для подписчиков
// PreviousStatus пустой при создании бронирования
type ReservationStatusChangedPayload struct {
	ReservationID   int64                    `json:"reservation_id"`
	PreviousStatus  domain.ReservationStatus `json:"previous_status,omitempty"`
	NewStatus       domain.ReservationStatus `json:"new_status"`
	CustomerID      int64                    `json:"customer_id"`
	BusinessID      int64                    `json:"business_id"`
	ServiceID       int64                    `json:"service_id"`
	SlotID          *int64                   `json:"slot_id,omitempty"`
	ReservationDate string                   `json:"reservation_date"`
	ReservationTime string                   `json:"reservation_time"`
	Reason          *string                  `json:"reason,omitempty"`
}

// NewStatusChangedPayload собирает payload из бронирования после перехода
func NewStatusChangedPayload(r *domain.Reservation, previous domain.ReservationStatus) ReservationStatusChangedPayload {
	return ReservationStatusChangedPayload{
		ReservationID:   r.ID,
		PreviousStatus:  previous,
		NewStatus:       r.Status,
		CustomerID:      r.CustomerID,
		BusinessID:      r.BusinessID,
		ServiceID:       r.ServiceID,
		SlotID:          r.SlotID,
		ReservationDate: r.ReservationDate.Format(domain.DateFormat),
		ReservationTime: r.ReservationTime.String(),
		Reason:          r.CancellationReason,
	}
}

// Event доменное событие
type Event struct {
	ID        string
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler обработчик события
type Handler func(event *Event) error

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Bus синхронная in-process шина событий
// Ошибка обработчика логируется и не прерывает доставку остальным
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
	logger      Logger
}

// NewBus создает пустую шину
func NewBus(logger Logger) *Bus {
	return &Bus{
		subscribers: make(map[string][]Handler),
		logger:      logger,
	}
}

// Subscribe регистрирует обработчик на тип события
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish доставляет событие всем подписчикам его типа
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	for _, handler := range handlers {
		if err := handler(event); err != nil && b.logger != nil {
			b.logger.Warn("events: handler for %s (event %s) failed: %v", event.Type, event.ID, err)
		}
	}
}

// PublishJSON сериализует payload и публикует событие
func (b *Bus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}

	b.Publish(&event)
	return nil
}

// NewJSONEvent собирает событие с JSON-payload для ручной публикации
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("events: marshal %s payload: %w", eventType, err)
	}

	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}
