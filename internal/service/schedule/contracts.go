package schedule

import (
	"context"
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
)

// ScheduleRepository интерфейс репозитория правил расписания
type ScheduleRepository interface {
	GetShopRules(ctx context.Context, shopID int64) ([]domain.WeeklyHoursRule, error)
	GetStaffRules(ctx context.Context, shopID int64) (map[int64][]domain.WeeklyHoursRule, error)
	GetOwnerRules(ctx context.Context, shopID int64, ownerType domain.OwnerType, ownerID int64) ([]domain.WeeklyHoursRule, error)
	// ReplaceOwnerRules заменяет правила владельца целиком, требует транзакции
	ReplaceOwnerRules(ctx context.Context, shopID int64, ownerType domain.OwnerType, ownerID int64, rules []domain.WeeklyHoursRule) error
}

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetByShopID(ctx context.Context, shopID int64) (*domain.ShopConfig, error)
	Upsert(ctx context.Context, cfg *domain.ShopConfig) (*domain.ShopConfig, error)
}

// TimeBlockRepository интерфейс репозитория блокировок времени
type TimeBlockRepository interface {
	Create(ctx context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeBlock, error)
	GetOverlappingRange(ctx context.Context, shopID int64, from, to time.Time) ([]domain.TimeBlock, error)
	Delete(ctx context.Context, id int64) error
}

// StaffRepository интерфейс репозитория мастеров
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetShop(ctx context.Context, shopID int64) (*catalogservice.Shop, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotsCacheInvalidator интерфейс инвалидации кеша слотов
type SlotsCacheInvalidator interface {
	InvalidateShop(ctx context.Context, shopID int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
