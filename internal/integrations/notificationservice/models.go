package notificationservice

import (
	"encoding/json"
	"time"
)

// Notification тело webhook-запроса в NotificationService
type Notification struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}
