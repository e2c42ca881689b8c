package manage_slot

import (
	"context"

	manageSlot "github.com/m04kA/SMC-ReservationService/internal/usecase/manage_slot"
)

type ManageSlotUseCase interface {
	Delete(ctx context.Context, req *manageSlot.Request) (*manageSlot.Response, error)
	Deactivate(ctx context.Context, req *manageSlot.Request) (*manageSlot.Response, error)
	Activate(ctx context.Context, req *manageSlot.Request) (*manageSlot.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
