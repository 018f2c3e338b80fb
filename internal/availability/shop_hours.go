package availability

import (
	"fmt"
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
)

// ResolveShopHours определяет часы работы барбершопа на указанную дату
// по еженедельным правилам.
//
// Возвращает (границы, true, nil), если барбершоп открыт в этот день.
// Если правила на этот день недели нет или оно выключено - (_, false, nil):
// барбершоп закрыт, слотов быть не может.
// Некорректное правило (битый формат времени, открытие не раньше закрытия) -
// это ошибка конфигурации, о ней сообщаем громко, а не трактуем как "закрыто".
func ResolveShopHours(rules []domain.WeeklyHoursRule, date time.Time) (DayHours, bool, error) {
	weekday := int(date.Weekday())

	for _, rule := range rules {
		if rule.DayOfWeek != weekday {
			continue
		}

		if !rule.IsEnabled {
			return DayHours{}, false, nil
		}

		hours, err := parseRuleBounds(rule)
		if err != nil {
			return DayHours{}, false, err
		}
		return hours, true, nil
	}

	// Правила на этот день недели нет - барбершоп закрыт
	return DayHours{}, false, nil
}

// parseRuleBounds парсит границы правила в минуты с начала суток
func parseRuleBounds(rule domain.WeeklyHoursRule) (DayHours, error) {
	open, err := rule.OpenTime.Minutes()
	if err != nil {
		return DayHours{}, fmt.Errorf("%w: owner=%s/%d day=%d open_time: %v",
			ErrMalformedRule, rule.OwnerType, rule.OwnerID, rule.DayOfWeek, err)
	}

	closeM, err := rule.CloseTime.Minutes()
	if err != nil {
		return DayHours{}, fmt.Errorf("%w: owner=%s/%d day=%d close_time: %v",
			ErrMalformedRule, rule.OwnerType, rule.OwnerID, rule.DayOfWeek, err)
	}

	if open >= closeM {
		return DayHours{}, fmt.Errorf("%w: owner=%s/%d day=%d: open %s is not before close %s",
			ErrMalformedRule, rule.OwnerType, rule.OwnerID, rule.DayOfWeek, rule.OpenTime, rule.CloseTime)
	}

	return DayHours{OpenMinutes: open, CloseMinutes: closeM}, nil
}
