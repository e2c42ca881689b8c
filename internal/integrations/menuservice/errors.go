package menuservice

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в MenuService
	ErrServiceNotFound = errors.New("menuservice client: service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("menuservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("menuservice client: invalid response")

	// ErrUnavailable MenuService недоступен (сеть, таймаут, 5xx)
	ErrUnavailable = errors.New("menuservice client: service unavailable")
)
