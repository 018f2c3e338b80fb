package availability

import "time"

// interval полуинтервал [Start, End) на оси абсолютного времени
type interval struct {
	Start time.Time
	End   time.Time
}

// overlaps проверяет пересечение двух полуинтервалов
// Граничащие интервалы (конец одного == начало другого) не пересекаются
func (i interval) overlaps(other interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// expand возвращает интервал, расширенный на d в обе стороны
func (i interval) expand(d time.Duration) interval {
	return interval{Start: i.Start.Add(-d), End: i.End.Add(d)}
}

// dayStart возвращает полночь запрошенного дня в таймзоне барбершопа
// Границы дня всегда считаются в таймзоне бизнеса, а не вызывающей стороны
func dayStart(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

// dateOnly обнуляет время, оставляя только дату в таймзоне loc
func dateOnly(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// instantAt возвращает абсолютный момент: полночь дня day + minutes минут
func instantAt(day time.Time, minutes int) time.Time {
	return day.Add(time.Duration(minutes) * time.Minute)
}
