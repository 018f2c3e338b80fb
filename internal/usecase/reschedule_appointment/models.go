package reschedule_appointment

import (
	"time"

	"github.com/barberhub/BH-BookingService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64            // ID переносимой записи
	ClientID      int64            // ID клиента (проверка владения)
	Date          time.Time        // Новая дата записи (без времени)
	StartTime     types.TimeString // Новое время начала слота
	StaffID       *int64           // Конкретный мастер; nil = прежний, если свободен, иначе любой
}

// Response модель ответа с перенесенной записью
type Response struct {
	ID              int64            // ID записи
	ClientID        int64            // ID клиента
	ShopID          int64            // ID барбершопа
	StaffID         int64            // ID назначенного мастера
	ServiceIDs      []int64          // Пакет услуг
	Date            time.Time        // Новая дата записи
	StartTime       types.TimeString // Новое время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус записи
	PrevStartAt     time.Time        // Прежнее время начала
}
