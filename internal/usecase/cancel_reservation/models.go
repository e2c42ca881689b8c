package cancel_reservation

// Request модель запроса на отмену бронирования
type Request struct {
	ReservationID int64   // ID бронирования
	CustomerID    int64   // ID клиента, выполняющего отмену
	Reason        *string // Причина отмены (опционально)
}
