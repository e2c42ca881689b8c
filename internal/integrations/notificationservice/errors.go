package notificationservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notificationservice client: internal error")

	// ErrDeliveryFailed NotificationService не принял событие
	ErrDeliveryFailed = errors.New("notificationservice client: delivery failed")
)
