package get_shop_config

import (
	"context"

	"github.com/barberhub/BH-BookingService/internal/service/schedule/models"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	GetConfig(ctx context.Context, shopID int64) (*models.ConfigResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
