package domain

import "time"

// ShopConfig represents the booking configuration of a barbershop
type ShopConfig struct {
	ID                  int64
	ShopID              int64
	Timezone            string // IANA-имя таймзоны барбершопа, например "Europe/Moscow"
	SlotIntervalMinutes int    // Шаг генерации слотов
	BufferMinutes       int    // Обязательный зазор вокруг каждой записи
	BookingWindowDays   int    // На сколько дней вперед открыта запись (0 = без ограничения)
	MinAdvanceHours     int    // Минимальное время от "сейчас" до начала слота
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasBookingWindowLimit returns true if there's a limit on how far in advance bookings can be made
func (c *ShopConfig) HasBookingWindowLimit() bool {
	return c.BookingWindowDays > 0
}
