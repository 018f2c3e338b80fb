package list_time_blocks

import (
	"context"

	"github.com/barberhub/BH-BookingService/internal/service/schedule/models"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	ListTimeBlocks(ctx context.Context, req *models.ListTimeBlocksRequest) (*models.TimeBlockListResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
