package create_time_block

import (
	"context"

	"github.com/barberhub/BH-BookingService/internal/service/schedule/models"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	CreateTimeBlock(ctx context.Context, req *models.CreateTimeBlockRequest) (*models.TimeBlockResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
