package reschedule_appointment

import (
	"context"
	"database/sql"
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/infra/events"
	"github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	// GetByShopWithFilter получает записи барбершопа, пересекающие период фильтра
	// Внутри транзакции записи блокируются (FOR UPDATE)
	GetByShopWithFilter(ctx context.Context, filter domain.ShopAppointmentsFilter) ([]*domain.Appointment, error)
	Reschedule(ctx context.Context, id int64, staffID int64, startAt, endAt sql.NullTime) error
}

// ScheduleRepository интерфейс репозитория правил расписания
type ScheduleRepository interface {
	GetShopRules(ctx context.Context, shopID int64) ([]domain.WeeklyHoursRule, error)
	GetStaffRules(ctx context.Context, shopID int64) (map[int64][]domain.WeeklyHoursRule, error)
}

// StaffRepository интерфейс репозитория мастеров
type StaffRepository interface {
	GetActiveByShop(ctx context.Context, shopID int64) ([]domain.StaffMember, error)
}

// TimeBlockRepository интерфейс репозитория блокировок времени
type TimeBlockRepository interface {
	GetOverlappingRange(ctx context.Context, shopID int64, from, to time.Time) ([]domain.TimeBlock, error)
}

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetByShopID(ctx context.Context, shopID int64) (*domain.ShopConfig, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetShop(ctx context.Context, shopID int64) (*catalogservice.Shop, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий записей
type EventPublisher interface {
	Publish(ctx context.Context, event events.AppointmentEvent) error
}

// SlotsCacheInvalidator интерфейс инвалидации кеша слотов
type SlotsCacheInvalidator interface {
	InvalidateDay(ctx context.Context, shopID int64, date time.Time)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
