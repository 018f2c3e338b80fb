package events

import "time"

// Типы событий записей
const (
	TypeAppointmentCreated     = "appointment.created"
	TypeAppointmentCancelled   = "appointment.cancelled"
	TypeAppointmentRescheduled = "appointment.rescheduled"
)

// AppointmentEvent событие жизненного цикла записи
// Публикуется в Kafka; внешний диспетчер уведомлений рассылает по нему
// email/push клиенту и мастеру
type AppointmentEvent struct {
	Type          string     `json:"type"`
	AppointmentID int64      `json:"appointment_id"`
	ShopID        int64      `json:"shop_id"`
	ClientID      int64      `json:"client_id"`
	StaffID       int64      `json:"staff_id"`
	StartAt       time.Time  `json:"start_at"`
	EndAt         time.Time  `json:"end_at"`
	PrevStartAt   *time.Time `json:"prev_start_at,omitempty"` // Для appointment.rescheduled
	OccurredAt    time.Time  `json:"occurred_at"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
