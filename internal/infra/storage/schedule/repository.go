package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/pkg/dbmetrics"
	"github.com/barberhub/BH-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с еженедельными правилами расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var ruleColumns = []string{
	"id",
	"shop_id",
	"owner_type",
	"owner_id",
	"day_of_week",
	"open_time",
	"close_time",
	"is_enabled",
	"created_at",
	"updated_at",
}

// GetShopRules получает правила расписания самого барбершопа
func (r *Repository) GetShopRules(ctx context.Context, shopID int64) ([]domain.WeeklyHoursRule, error) {
	return r.getRules(ctx, squirrel.Eq{
		"shop_id":    shopID,
		"owner_type": domain.OwnerShop,
	})
}

// GetStaffRules получает персональные правила всех мастеров барбершопа,
// сгруппированные по owner_id (ID мастера)
func (r *Repository) GetStaffRules(ctx context.Context, shopID int64) (map[int64][]domain.WeeklyHoursRule, error) {
	rules, err := r.getRules(ctx, squirrel.Eq{
		"shop_id":    shopID,
		"owner_type": domain.OwnerStaff,
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[int64][]domain.WeeklyHoursRule)
	for _, rule := range rules {
		grouped[rule.OwnerID] = append(grouped[rule.OwnerID], rule)
	}

	return grouped, nil
}

// GetOwnerRules получает правила одного владельца (барбершопа или мастера)
func (r *Repository) GetOwnerRules(ctx context.Context, shopID int64, ownerType domain.OwnerType, ownerID int64) ([]domain.WeeklyHoursRule, error) {
	return r.getRules(ctx, squirrel.Eq{
		"shop_id":    shopID,
		"owner_type": ownerType,
		"owner_id":   ownerID,
	})
}

func (r *Repository) getRules(ctx context.Context, where squirrel.Eq) ([]domain.WeeklyHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("weekly_hours_rules").
		Where(where).
		OrderBy("owner_id ASC, day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// ReplaceOwnerRules заменяет все правила владельца новым набором.
// Должен вызываться внутри транзакции: иначе между DELETE и INSERT
// параллельный запрос слотов увидит владельца без расписания.
func (r *Repository) ReplaceOwnerRules(ctx context.Context, shopID int64, ownerType domain.OwnerType, ownerID int64, rules []domain.WeeklyHoursRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("weekly_hours_rules").
		Where(squirrel.Eq{
			"shop_id":    shopID,
			"owner_type": ownerType,
			"owner_id":   ownerID,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceOwnerRules - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceOwnerRules - execute delete: %v", ErrExecQuery, err)
	}

	if len(rules) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("weekly_hours_rules").
		Columns("shop_id", "owner_type", "owner_id", "day_of_week", "open_time", "close_time", "is_enabled")

	for _, rule := range rules {
		insertBuilder = insertBuilder.Values(
			shopID,
			ownerType,
			ownerID,
			rule.DayOfWeek,
			rule.OpenTime,
			rule.CloseTime,
			rule.IsEnabled,
		)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceOwnerRules - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceOwnerRules - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// scanRules сканирует результаты запроса в слайс правил
func scanRules(rows *sql.Rows) ([]domain.WeeklyHoursRule, error) {
	rules := make([]domain.WeeklyHoursRule, 0)

	for rows.Next() {
		var rule domain.WeeklyHoursRule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.ShopID,
			&rule.OwnerType,
			&rule.OwnerID,
			&rule.DayOfWeek,
			&rule.OpenTime,
			&rule.CloseTime,
			&rule.IsEnabled,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %v", ErrScanRow, err)
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}
