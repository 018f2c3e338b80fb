package staff

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/pkg/dbmetrics"
	"github.com/barberhub/BH-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с мастерами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var staffColumns = []string{
	"id",
	"shop_id",
	"display_name",
	"is_active",
	"created_at",
	"updated_at",
}

// GetActiveByShop получает активных мастеров барбершопа
// Порядок детерминирован (по ID): от него зависит порядок мастеров в слотах
func (r *Repository) GetActiveByShop(ctx context.Context, shopID int64) ([]domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(staffColumns...).
		From("staff_members").
		Where(squirrel.Eq{"shop_id": shopID, "is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByShop - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByShop - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	members := make([]domain.StaffMember, 0)
	for rows.Next() {
		member, err := scanStaffMember(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveByShop - scan row: %v", ErrScanRow, err)
		}
		members = append(members, *member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveByShop - rows error: %v", ErrScanRow, err)
	}

	return members, nil
}

// GetByID получает мастера по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(staffColumns...).
		From("staff_members").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	member, err := scanStaffMember(executor.QueryRowContext(ctx, query, args...).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff member: %v", ErrScanRow, err)
	}

	return member, nil
}

func scanStaffMember(scan func(dest ...interface{}) error) (*domain.StaffMember, error) {
	var member domain.StaffMember
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&member.ID,
		&member.ShopID,
		&member.DisplayName,
		&member.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	member.CreatedAt = createdAt.Time
	member.UpdatedAt = updatedAt.Time

	return &member, nil
}
