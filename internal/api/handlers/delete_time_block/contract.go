package delete_time_block

import "context"

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	DeleteTimeBlock(ctx context.Context, shopID, blockID, userID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
