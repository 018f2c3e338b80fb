package get_appointment

import (
	"context"

	"github.com/barberhub/BH-BookingService/internal/service/appointments/models"
)

// AppointmentsService интерфейс сервиса записей
type AppointmentsService interface {
	GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
