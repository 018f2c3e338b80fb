package domain

// Default configuration values
const (
	DefaultTimezone            = "UTC"
	DefaultSlotIntervalMinutes = 15
	DefaultBufferMinutes       = 0
	DefaultBookingWindowDays   = 30
	DefaultMinAdvanceHours     = 1
)

// Business validation constants
const (
	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 240 // 4 hours
	MinBufferMinutes       = 0
	MaxBufferMinutes       = 120 // 2 hours
	MinBookingWindowDays   = 0
	MaxBookingWindowDays   = 365 // 1 year
	MinAdvanceHoursLimit   = 0
	MaxAdvanceHoursLimit   = 168 // 1 week
	MaxNotesLength         = 500
	MaxReasonLength        = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов неактивных записей
// Неактивные записи не учитываются при расчёте доступных слотов
var InactiveStatuses = []AppointmentStatus{
	StatusCancelledByClient,
	StatusCancelledByShop,
	StatusNoShow,
}

// ActiveStatuses список статусов активных записей
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
