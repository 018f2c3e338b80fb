package cancel_appointment

import (
	"context"

	"github.com/barberhub/BH-BookingService/internal/service/appointments/models"
)

// AppointmentsService интерфейс сервиса записей
type AppointmentsService interface {
	Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
