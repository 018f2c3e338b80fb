package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending           AppointmentStatus = "pending"
	StatusConfirmed         AppointmentStatus = "confirmed"
	StatusInProgress        AppointmentStatus = "in_progress"
	StatusCompleted         AppointmentStatus = "completed"
	StatusCancelledByClient AppointmentStatus = "cancelled_by_client"
	StatusCancelledByShop   AppointmentStatus = "cancelled_by_shop"
	StatusNoShow            AppointmentStatus = "no_show"
)

// Appointment represents a booked visit in the system
type Appointment struct {
	ID              int64
	ShopID          int64
	ClientID        int64
	StaffID         int64
	ServiceIDs      []int64
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	Status          AppointmentStatus

	// Denormalized data for history
	ServiceNames []string
	TotalPrice   float64
	ClientName   *string
	ClientPhone  *string
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment is in an active state
// Неактивные записи (отменённые, no-show) не занимают время мастера
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelledByClient &&
		a.Status != StatusCancelledByShop &&
		a.Status != StatusNoShow
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment can be moved to another slot
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelledByClient || a.Status == StatusCancelledByShop
}

// ShopAppointmentsFilter фильтр для получения записей барбершопа
type ShopAppointmentsFilter struct {
	ShopID          int64              // Обязательный параметр
	StaffID         *int64             // Фильтр по мастеру (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли неактивные записи (отмененные, no-show)
	ExcludeID       *int64             // Исключить конкретную запись (используется при переносе)
}
