package availability

import "time"

// WithinBookingWindow проверяет, что дата не выходит за горизонт записи.
//
// Граница включительная: при windowDays = 30 запись на "сегодня + 30 дней"
// разрешена, на "сегодня + 31" - нет. "Сегодня" считается в таймзоне
// барбершопа с точностью до дня.
//
// Только windowDays = 0 означает отсутствие лимита (ненастроенная
// конфигурация); отрицательное значение - ошибка конфигурации, которую
// validateInput отклоняет до вызова гейта.
//
// Дешевый гейт: вызывается до загрузки расписаний, мастеров и записей.
func WithinBookingWindow(date, now time.Time, loc *time.Location, windowDays int) bool {
	if windowDays == 0 {
		return true
	}

	today := dateOnly(now, loc)
	requested := dayStart(date, loc)
	maxDate := today.AddDate(0, 0, windowDays)

	return !requested.After(maxDate)
}
