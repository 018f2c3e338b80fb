package update_appointment_status

import (
	"context"

	"github.com/barberhub/BH-BookingService/internal/service/appointments/models"
)

// AppointmentsService интерфейс сервиса записей
type AppointmentsService interface {
	UpdateStatus(ctx context.Context, appointmentID int64, userID int64, status string) (*models.AppointmentResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
