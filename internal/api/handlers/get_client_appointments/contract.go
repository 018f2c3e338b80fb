package get_client_appointments

import (
	"context"

	"github.com/barberhub/BH-BookingService/internal/service/appointments/models"
)

// AppointmentsService интерфейс сервиса записей
type AppointmentsService interface {
	GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
