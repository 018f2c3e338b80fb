package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// TimeString время в формате "HH:MM" (часы:минуты)
// Используется для хранения времени без привязки к дате и таймзоне
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из минут с начала суток
func NewTimeStringFromMinutes(m int) (TimeString, error) {
	if m < 0 || m >= MinutesPerDay {
		return "", fmt.Errorf("types: minutes out of range: %d", m)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60)), nil
}

// Validate проверяет, что строка имеет строгий формат "HH:MM"
// time.Parse принимает и "9:00", поэтому сначала проверяем форму строки
func (t TimeString) Validate() error {
	s := string(t)
	if len(s) != 5 || s[2] != ':' ||
		!isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[3]) || !isDigit(s[4]) {
		return fmt.Errorf("types: invalid time string %q: expected HH:MM", s)
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("types: invalid time string %q: expected HH:MM", s)
	}
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Minutes возвращает количество минут с начала суток
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return 0, fmt.Errorf("types: invalid time string %q: expected HH:MM", string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// minutes возвращает минуты с начала суток, игнорируя ошибку парсинга
// Некорректное значение трактуется как 00:00 (для сравнений достаточно)
func (t TimeString) minutes() int {
	m, _ := t.Minutes()
	return m
}

// AddMinutes возвращает новый TimeString, сдвинутый на m минут вперед
// Возвращает ошибку, если результат выходит за пределы суток
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	cur, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(cur + m)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes() < other.minutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes() > other.minutes()
}

// String реализует fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Поддерживает колонки типа TIME (приходят как "15:04:05") и текстовые колонки
func (t *TimeString) Scan(src interface{}) error {
	var raw string

	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into TimeString", src)
	}

	// Postgres TIME приходит с секундами - отрезаем их
	if len(raw) >= 5 {
		raw = raw[:5]
	}

	ts, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}

	*t = ts
	return nil
}
