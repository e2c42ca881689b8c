package create_slots

import (
	"context"

	createSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/create_slots"
)

type CreateSlotsUseCase interface {
	Execute(ctx context.Context, req *createSlots.Request) (*createSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
