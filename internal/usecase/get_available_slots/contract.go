package get_available_slots

import (
	"context"
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByShopWithFilter получает записи барбершопа, пересекающие период фильтра
	GetByShopWithFilter(ctx context.Context, filter domain.ShopAppointmentsFilter) ([]*domain.Appointment, error)
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
	GetServices(ctx context.Context, shopID int64, serviceIDs []int64) ([]catalogservice.Service, error)
}

// SlotsCache интерфейс кеша вычисленных слотов
type SlotsCache interface {
	Get(ctx context.Context, key string) ([]domain.AvailableSlot, error)
	Set(ctx context.Context, key string, slots []domain.AvailableSlot) error
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
