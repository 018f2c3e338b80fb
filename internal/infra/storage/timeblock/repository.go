package timeblock

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/pkg/dbmetrics"
	"github.com/barberhub/BH-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с блокировками времени
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var blockColumns = []string{
	"id",
	"shop_id",
	"staff_id",
	"start_at",
	"end_at",
	"reason",
	"created_at",
}

// Create создает новую блокировку времени
func (r *Repository) Create(ctx context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_blocks").
		Columns("shop_id", "staff_id", "start_at", "end_at", "reason").
		Values(block.ShopID, block.StaffID, block.StartAt, block.EndAt, block.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time

	return block, nil
}

// GetByID получает блокировку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("time_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	block, err := scanBlock(executor.QueryRowContext(ctx, query, args...).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrTimeBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan time block: %v", ErrScanRow, err)
	}

	return block, nil
}

// GetOverlappingRange получает блокировки барбершопа, пересекающие [from, to)
// Блокировка может длиться несколько дней - выбираем по пересечению, а не по вхождению
func (r *Repository) GetOverlappingRange(ctx context.Context, shopID int64, from, to time.Time) ([]domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("time_blocks").
		Where(squirrel.Eq{"shop_id": shopID}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlappingRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlappingRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]domain.TimeBlock, 0)
	for rows.Next() {
		block, err := scanBlock(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: GetOverlappingRange - scan row: %v", ErrScanRow, err)
		}
		blocks = append(blocks, *block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOverlappingRange - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// Delete удаляет блокировку
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTimeBlockNotFound
	}

	return nil
}

func scanBlock(scan func(dest ...interface{}) error) (*domain.TimeBlock, error) {
	var block domain.TimeBlock
	var createdAt sql.NullTime

	err := scan(
		&block.ID,
		&block.ShopID,
		&block.StaffID,
		&block.StartAt,
		&block.EndAt,
		&block.Reason,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	block.CreatedAt = createdAt.Time

	return &block, nil
}
