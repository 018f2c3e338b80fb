package shopconfig

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/pkg/dbmetrics"
	"github.com/barberhub/BH-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с конфигурацией бронирования барбершопа
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var configColumns = []string{
	"id",
	"shop_id",
	"timezone",
	"slot_interval_minutes",
	"buffer_minutes",
	"booking_window_days",
	"min_advance_hours",
	"created_at",
	"updated_at",
}

// GetByShopID получает конфигурацию барбершопа
func (r *Repository) GetByShopID(ctx context.Context, shopID int64) (*domain.ShopConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(configColumns...).
		From("shop_configs").
		Where(squirrel.Eq{"shop_id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByShopID - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.ShopConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.ShopID,
		&cfg.Timezone,
		&cfg.SlotIntervalMinutes,
		&cfg.BufferMinutes,
		&cfg.BookingWindowDays,
		&cfg.MinAdvanceHours,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByShopID - scan config: %v", ErrScanRow, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// Upsert создает или обновляет конфигурацию барбершопа
// Конфигурация уникальна по shop_id
func (r *Repository) Upsert(ctx context.Context, cfg *domain.ShopConfig) (*domain.ShopConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("shop_configs").
		Columns(
			"shop_id",
			"timezone",
			"slot_interval_minutes",
			"buffer_minutes",
			"booking_window_days",
			"min_advance_hours",
		).
		Values(
			cfg.ShopID,
			cfg.Timezone,
			cfg.SlotIntervalMinutes,
			cfg.BufferMinutes,
			cfg.BookingWindowDays,
			cfg.MinAdvanceHours,
		).
		Suffix(`ON CONFLICT (shop_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			slot_interval_minutes = EXCLUDED.slot_interval_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			booking_window_days = EXCLUDED.booking_window_days,
			min_advance_hours = EXCLUDED.min_advance_hours,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&cfg.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}
