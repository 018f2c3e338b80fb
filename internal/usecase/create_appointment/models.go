package create_appointment

import (
	"time"

	"github.com/barberhub/BH-BookingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ClientID   int64            // ID клиента
	ShopID     int64            // ID барбершопа
	ServiceIDs []int64          // Пакет услуг (длительности суммируются)
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	StaffID    *int64           // Конкретный мастер; nil = любой свободный
	Notes      *string          // Дополнительные пожелания (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	ClientID        int64            // ID клиента
	ShopID          int64            // ID барбершопа
	StaffID         int64            // ID назначенного мастера
	ServiceIDs      []int64          // Пакет услуг
	Date            time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Суммарная длительность в минутах
	Status          string           // Статус записи

	// Денормализованные данные
	ServiceNames []string // Названия услуг на момент записи
	TotalPrice   float64  // Суммарная цена на момент записи
	ClientName   *string  // Имя клиента
	ClientPhone  *string  // Телефон клиента
	Notes        *string  // Пожелания

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
