package get_shop_schedule

import (
	"context"

	"github.com/barberhub/BH-BookingService/internal/service/schedule/models"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	GetSchedule(ctx context.Context, shopID int64) (*models.ScheduleResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
