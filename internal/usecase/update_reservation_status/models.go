package update_reservation_status

import "github.com/m04kA/SMC-ReservationService/internal/domain"

// Request модель запроса на смену статуса бронирования бизнесом
type Request struct {
	ReservationID int64                    // ID бронирования
	BusinessID    int64                    // ID бизнеса, которому принадлежит бронирование
	Status        domain.ReservationStatus // CONFIRMED, COMPLETED или NO_SHOW
}
