package get_shop_appointments

import (
	"context"

	"github.com/barberhub/BH-BookingService/internal/service/appointments/models"
)

// AppointmentsService интерфейс сервиса записей
type AppointmentsService interface {
	GetShopAppointments(ctx context.Context, req *models.GetShopAppointmentsRequest) (*models.AppointmentListResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
