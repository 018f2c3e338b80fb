package domain

import (
	"time"

	"github.com/barberhub/BH-BookingService/pkg/types"
)

// OwnerType тип владельца правила расписания
type OwnerType string

const (
	// OwnerShop правило задает часы работы барбершопа
	OwnerShop OwnerType = "shop"
	// OwnerStaff правило задает персональные часы мастера
	OwnerStaff OwnerType = "staff"
)

// WeeklyHoursRule правило еженедельного расписания
// Уникально по (owner_type, owner_id, day_of_week)
type WeeklyHoursRule struct {
	ID        int64
	ShopID    int64
	OwnerType OwnerType
	OwnerID   int64 // ID барбершопа или мастера в зависимости от OwnerType
	DayOfWeek int   // 0 = воскресенье ... 6 = суббота (как time.Weekday)
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsEnabled bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StaffMember мастер барбершопа
// В генерации слотов участвуют только активные мастера
type StaffMember struct {
	ID          int64
	ShopID      int64
	DisplayName string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimeBlock блокировка времени (отпуск, обед, технический перерыв)
// StaffID = nil означает блокировку для всех мастеров барбершопа
type TimeBlock struct {
	ID        int64
	ShopID    int64
	StaffID   *int64
	StartAt   time.Time
	EndAt     time.Time
	Reason    *string
	CreatedAt time.Time
}

// AppliesTo возвращает true, если блокировка распространяется на мастера
func (b *TimeBlock) AppliesTo(staffID int64) bool {
	return b.StaffID == nil || *b.StaffID == staffID
}
