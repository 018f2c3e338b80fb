package get_available_slots

import (
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ShopID     int64     // ID барбершопа
	ServiceIDs []int64   // Пакет услуг (длительности суммируются)
	Date       time.Time // Дата для получения слотов (без времени)
	StaffID    *int64    // Конкретный мастер; nil = любой мастер
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ShopID          int64                  // ID барбершопа
	Date            time.Time              // Дата, на которую запрашивались слоты
	DurationMinutes int                    // Суммарная длительность пакета услуг
	Slots           []domain.AvailableSlot // Доступные слоты с подходящими мастерами
}
